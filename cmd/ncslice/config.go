package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/axes"
)

// viewConfig is what to show: which variable, on how many axes, which
// dimension on each axis and where the other dimensions are pinned.
type viewConfig struct {
	File     string         `yaml:"file"`
	Variable string         `yaml:"variable"`
	Axes     int            `yaml:"axes"`
	Dims     []string       `yaml:"dims"`
	Pins     map[string]int `yaml:"pins"`
	NaN      bool           `yaml:"nan"`
	JSON     bool           `yaml:"json"`
	Verbose  int            `yaml:"verbose"`
}

func defaultViewConfig() *viewConfig {
	return &viewConfig{Axes: 2, Verbose: 2}
}

func loadViewConfig(path string, cfg *viewConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// parseDims splits "lat,lon" into axis dimension names.
func parseDims(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var dims []string
	for _, d := range strings.Split(s, ",") {
		dims = append(dims, strings.TrimSpace(d))
	}
	return dims
}

// parsePins reads "time=3,depth=0".
func parsePins(s string) (map[string]int, error) {
	pins := map[string]int{}
	if strings.TrimSpace(s) == "" {
		return pins, nil
	}
	for _, kv := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("pin %q is not name=index", kv)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", kv, err)
		}
		pins[strings.TrimSpace(name)] = n
	}
	return pins, nil
}

// dimIndex finds a dimension by name or by number.
func dimIndex(src api.Source, name string) (int, error) {
	for i := 0; i < src.Rank(); i++ {
		if src.DimName(i) == name {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < src.Rank() {
		return i, nil
	}
	return 0, fmt.Errorf("no dimension %q in %v", name, api.DimNames(src))
}

// assignment builds the default assignment for src and applies cfg to it.
func assignment(src api.Source, cfg *viewConfig) (*axes.Assignment, error) {
	a, err := axes.New(src.Shape(), api.DimNames(src), cfg.Axes)
	if err != nil {
		return nil, err
	}
	if len(cfg.Dims) > cfg.Axes {
		return nil, fmt.Errorf("%d dimensions given for %d axes", len(cfg.Dims), cfg.Axes)
	}
	for k, name := range cfg.Dims {
		if name == "-" {
			if err := a.SetAxis(k, axes.Fake(k)); err != nil {
				return nil, err
			}
			continue
		}
		d, err := dimIndex(src, name)
		if err != nil {
			return nil, err
		}
		if err := a.SetAxis(k, axes.Dim(d)); err != nil {
			return nil, err
		}
	}
	for name, val := range cfg.Pins {
		d, err := dimIndex(src, name)
		if err != nil {
			return nil, err
		}
		if err := a.SetPinnedIndex(d, val); err != nil {
			return nil, err
		}
	}
	return a, nil
}
