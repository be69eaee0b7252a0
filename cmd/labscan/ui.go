package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/tsawler/labscan/model"
)

var (
	headerColor  = color.New(color.Bold)
	alertColor   = color.New(color.FgRed, color.Bold)
	okColor      = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
)

var tableHeaders = []string{"TEST", "VALUE", "UNIT", "RANGE", "STATUS"}

// printTable writes tests as an aligned table. Out-of-range rows are
// highlighted.
func printTable(w io.Writer, tests []model.LabTest) {
	if len(tests) == 0 {
		fmt.Fprintln(w, "No lab tests found.")
		return
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeaders, "\t"))
	for _, t := range tests {
		status := "normal"
		if t.OutOfRange {
			status = "OUT OF RANGE"
		}
		// Names can span lines when OCR output runs together.
		name := strings.Join(strings.Fields(t.TestName), " ")
		fmt.Fprintln(tw, strings.Join([]string{name, t.TestValue, t.TestUnit, t.BioReferenceRange, status}, "\t"))
	}
	tw.Flush()

	// Color whole lines after alignment so escape codes do not count
	// towards column widths.
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	headerColor.Fprintln(w, lines[0])
	for i, line := range lines[1:] {
		if tests[i].OutOfRange {
			alertColor.Fprintln(w, line)
		} else {
			okColor.Fprintln(w, line)
		}
	}

	fmt.Fprintf(w, "\n%d tests, %d out of range\n", len(tests), len(model.OutOfRangeTests(tests)))
}
