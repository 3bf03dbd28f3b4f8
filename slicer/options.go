package slicer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	registerer prometheus.Registerer
	namespace  string
	validate   bool
}

func defaultEngineOptions() *engineOptions {
	return &engineOptions{
		namespace: "slicer",
		validate:  true,
	}
}

// WithMetrics registers the engine's collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *engineOptions) {
		o.registerer = reg
	}
}

// WithNamespace sets the metric namespace (default "slicer").
func WithNamespace(ns string) Option {
	return func(o *engineOptions) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithoutValidation skips the assignment invariant check done before every
// slice. Assignments built through the axes API never need it.
func WithoutValidation() Option {
	return func(o *engineOptions) {
		o.validate = false
	}
}
