package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/batchatco/go-native-slicer/slicer/axes"
	"github.com/batchatco/go-native-slicer/slicer/masked"
	"github.com/batchatco/go-native-slicer/slicer/tabular"
)

const maskedCell = "--"

// render prints a title and the sliced array: one value for zero axes, a
// column for one axis, a grid for two. Higher ranks are printed nested.
func render(w io.Writer, name string, a *axes.Assignment, arr *masked.Array) error {
	labels := make([]string, a.AxisCount())
	for k := range labels {
		labels[k] = a.AxisLabel(k)
	}
	fmt.Fprintf(w, "%s%s axes=(%s) shape=%v\n", name, a.Describe(), strings.Join(labels, ", "), arr.Shape())

	switch arr.Rank() {
	case 0:
		_, err := fmt.Fprintln(w, cell(arr))
		return err
	case 1:
		n := arr.Shape()[0]
		for i := 0; i < n; i++ {
			fmt.Fprintf(w, "%d\t%s\n", i, cell(arr, i))
		}
		return nil
	case 2:
		shape := arr.Shape()
		tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
		for j := 0; j < shape[1]; j++ {
			fmt.Fprintf(tw, "\t%d", j)
		}
		fmt.Fprintln(tw, "\t")
		for i := 0; i < shape[0]; i++ {
			fmt.Fprintf(tw, "%d", i)
			for j := 0; j < shape[1]; j++ {
				fmt.Fprintf(tw, "\t%s", cell(arr, i, j))
			}
			fmt.Fprintln(tw, "\t")
		}
		return tw.Flush()
	default:
		_, err := fmt.Fprintln(w, arr)
		return err
	}
}

func cell(arr *masked.Array, index ...int) string {
	if arr.MaskAt(index...) {
		return maskedCell
	}
	return fmt.Sprint(arr.At(index...))
}

// renderJSON prints one JSON object per row, keyed by column number, with
// null for masked cells.
func renderJSON(w io.Writer, arr *masked.Array) error {
	table, err := tabular.ToTable(arr)
	if err != nil {
		return err
	}
	defer table.Release()
	if table.NumRows() == 0 {
		return nil
	}
	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()
	for tr.Next() {
		if err := array.RecordToJSON(tr.Record(), w); err != nil {
			return err
		}
	}
	return tr.Err()
}
