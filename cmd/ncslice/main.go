// Command ncslice prints a slice of a NetCDF variable, the way a text
// inspector would show it.
//
// Usage:
//
//	ncslice -file f.nc -list
//	ncslice -file f.nc -var temp -axes 2 -dim lat,lon -pin time=3
//	ncslice -config view.yaml -pin time=4
//	ncslice -file f.nc -var temp -axes 1 -json
//
// A YAML view file holds the same settings; flags given on the command
// line override it. "-" in -dim leaves an axis empty.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/batchatco/go-native-slicer/internal"
	"github.com/batchatco/go-native-slicer/slicer"
	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/axes"
	"github.com/batchatco/go-native-slicer/slicer/masked"
	"github.com/batchatco/go-native-slicer/slicer/ncsrc"
)

var logger = internal.NewLogger("ncslice")

// Replaced in tests.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// fail reports a bad input (a missing file, a bad pin, an unknown
// variable) and exits with status 1. Internal errors still go through
// logger.Fatal, which prints a stack.
func fail(err error) {
	fmt.Fprintln(stderr, "ncslice:", err)
	exit(1)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML view file")
		file       = flag.String("file", "", "NetCDF file")
		variable   = flag.String("var", "", "variable to slice")
		axisCount  = flag.Int("axes", 2, "number of display axes")
		dims       = flag.String("dim", "", "comma separated dimension per axis, - for none")
		pins       = flag.String("pin", "", "comma separated name=index pins")
		nan        = flag.Bool("nan", false, "promote to float and print masked values as NaN")
		asJSON     = flag.Bool("json", false, "print rows as JSON objects, masked values as null")
		list       = flag.Bool("list", false, "list variables and exit")
		verbose    = flag.Int("v", 2, "log level 0..4")
	)
	flag.Parse()

	cfg := defaultViewConfig()
	if *configPath != "" {
		if err := loadViewConfig(*configPath, cfg); err != nil {
			fail(err)
			return
		}
	}
	var pinErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.File = *file
		case "var":
			cfg.Variable = *variable
		case "axes":
			cfg.Axes = *axisCount
		case "dim":
			cfg.Dims = parseDims(*dims)
		case "pin":
			var p map[string]int
			p, pinErr = parsePins(*pins)
			if cfg.Pins == nil {
				cfg.Pins = map[string]int{}
			}
			for k, v := range p {
				cfg.Pins[k] = v
			}
		case "nan":
			cfg.NaN = *nan
		case "json":
			cfg.JSON = *asJSON
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if pinErr != nil {
		fail(pinErr)
		return
	}
	setLogLevels(cfg.Verbose)

	if cfg.File == "" {
		fmt.Fprintln(stderr, "ncslice: -file or a view file is required")
		flag.Usage()
		exit(2)
		return
	}
	f, err := ncsrc.Open(cfg.File)
	if err != nil {
		fail(err)
		return
	}
	defer f.Close()

	if *list || cfg.Variable == "" {
		if err := listVariables(os.Stdout, f); err != nil {
			fail(err)
			return
		}
		return
	}
	v, err := f.Variable(cfg.Variable)
	if err != nil {
		fail(err)
		return
	}
	if err := run(os.Stdout, v.Name(), v, cfg); err != nil {
		fail(err)
	}
}

func setLogLevels(level int) {
	logger.SetLogLevel(internal.LevelFromInt(level))
	slicer.SetLogLevel(level)
	axes.SetLogLevel(level)
	ncsrc.SetLogLevel(level)
	masked.SetLogLevel(level)
}

// run slices src as cfg says and renders the result.
func run(w io.Writer, name string, src api.Source, cfg *viewConfig) error {
	a, err := assignment(src, cfg)
	if err != nil {
		return err
	}
	arr, err := slicer.Slice(src, a)
	if err != nil {
		if slicer.Recoverable(err) {
			fmt.Fprintf(w, "%s: nothing to show: %v\n", name, err)
			return nil
		}
		return err
	}
	if cfg.NaN {
		arr, err = unmaskedNaN(arr)
		if err != nil {
			return err
		}
	}
	if cfg.JSON {
		return renderJSON(w, arr)
	}
	return render(w, name, a, arr)
}

// unmaskedNaN shows masked values as NaN instead of as masked cells.
func unmaskedNaN(arr *masked.Array) (*masked.Array, error) {
	filled, err := arr.FilledNaN()
	if err != nil {
		logger.Warn(err)
		return arr, nil
	}
	return masked.FromDense(filled.Values(), filled.Shape(), masked.NoMask, filled.FillValue())
}

// listVariables prints the variables of f and of all groups below it.
func listVariables(w io.Writer, f *ncsrc.File) error {
	prefix := ""
	if f.Path() != "/" {
		prefix = f.Path() + "/"
	}
	for _, name := range f.ListVariables() {
		v, err := f.Variable(name)
		if err != nil {
			fmt.Fprintf(w, "%s%s\t(%v)\n", prefix, name, err)
			continue
		}
		fmt.Fprintf(w, "%s%s\t[%s]\t%v\n", prefix, name, strings.Join(api.DimNames(v), ", "), v.Shape())
	}
	for _, name := range f.ListSubgroups() {
		g, err := f.Group(name)
		if err != nil {
			return err
		}
		err = listVariables(w, g)
		g.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
