package slicer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK           = "ok"
	outcomeNotSliceable = "not_sliceable"
	outcomeOutOfRange   = "out_of_range"
	outcomeError        = "error"
)

type metrics struct {
	slices     *prometheus.CounterVec
	duration   prometheus.Histogram
	fakeAxes   prometheus.Counter
	outElement prometheus.Counter
}

func newMetrics(namespace string) *metrics {
	return &metrics{
		slices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "slices_total",
				Help:      "Slice requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "slice_duration_seconds",
				Help:      "Time spent in Slice, source reads included",
				Buckets:   prometheus.DefBuckets,
			},
		),
		fakeAxes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "fake_axes_total",
				Help:      "Fake dimensions synthesized to fill display axes",
			},
		),
		outElement: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "elements_total",
				Help:      "Elements returned to callers",
			},
		),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.slices, m.duration, m.fakeAxes, m.outElement} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *metrics) observe(start time.Time, err error, fakes, elements int) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
	m.slices.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.fakeAxes.Add(float64(fakes))
		m.outElement.Add(float64(elements))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrNotSliceable):
		return outcomeNotSliceable
	case errors.Is(err, ErrOutOfRange):
		return outcomeOutOfRange
	default:
		return outcomeError
	}
}
