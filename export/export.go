// Package export writes lab test results as JSON, JSON Lines, CSV or TSV.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/labscan/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatJSON exports the response envelope as a single JSON object
	FormatJSON Format = iota
	// FormatJSONL exports one JSON object per test per line
	FormatJSONL
	// FormatCSV exports as comma-separated values
	FormatCSV
	// FormatTSV exports as tab-separated values
	FormatTSV
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	default:
		return ".txt"
	}
}

// ParseFormat returns the format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "jsonl":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return FormatJSON, fmt.Errorf("unsupported export format %q", s)
	}
}

// Config holds configuration options for export
type Config struct {
	// Format specifies the export format
	Format Format

	// IncludeHeader includes a header row in CSV/TSV exports
	IncludeHeader bool

	// PrettyPrint enables indentation for JSON formats
	PrettyPrint bool

	// Delimiter for CSV export (TSV always uses a tab)
	Delimiter rune

	// OnlyOutOfRange drops tests whose value is within range
	OnlyOutOfRange bool
}

// DefaultConfig returns the configuration used by the CLI: the JSON envelope
// as served over HTTP.
func DefaultConfig() Config {
	return Config{
		Format:        FormatJSON,
		IncludeHeader: true,
		PrettyPrint:   false,
		Delimiter:     ',',
	}
}

// ConfigFor returns DefaultConfig with the format replaced.
func ConfigFor(f Format) Config {
	config := DefaultConfig()
	config.Format = f
	if f == FormatTSV {
		config.Delimiter = '\t'
	}
	return config
}

// Exporter writes tests in a configured format
type Exporter struct {
	config Config
}

// New creates an exporter with the given configuration
func New(config Config) *Exporter {
	return &Exporter{config: config}
}

// Config returns the exporter configuration.
func (e *Exporter) Config() Config {
	return e.config
}

// Write writes tests to w
func (e *Exporter) Write(w io.Writer, tests []model.LabTest) error {
	if e.config.OnlyOutOfRange {
		tests = model.OutOfRangeTests(tests)
	}

	switch e.config.Format {
	case FormatJSON:
		return e.writeJSON(w, tests)
	case FormatJSONL:
		return e.writeJSONL(w, tests)
	case FormatCSV, FormatTSV:
		return e.writeCSV(w, tests)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// WriteToFile writes tests to a file
func (e *Exporter) WriteToFile(filename string, tests []model.LabTest) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := e.Write(f, tests); err != nil {
		return err
	}
	return f.Close()
}

// WriteToString writes tests to a string
func (e *Exporter) WriteToString(tests []model.LabTest) (string, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, tests); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeJSON writes the success envelope as one JSON document
func (e *Exporter) writeJSON(w io.Writer, tests []model.LabTest) error {
	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(model.Success(tests))
}

// writeJSONL writes one JSON object per test
func (e *Exporter) writeJSONL(w io.Writer, tests []model.LabTest) error {
	encoder := json.NewEncoder(w)
	for i, t := range tests {
		if err := encoder.Encode(t); err != nil {
			return fmt.Errorf("encoding test %d: %w", i, err)
		}
	}
	return nil
}

// writeCSV writes tests as CSV or TSV
func (e *Exporter) writeCSV(w io.Writer, tests []model.LabTest) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.config.Delimiter
	if e.config.Format == FormatTSV {
		csvWriter.Comma = '\t'
	}
	if csvWriter.Comma == 0 {
		csvWriter.Comma = ','
	}

	if e.config.IncludeHeader {
		if err := csvWriter.Write(model.Columns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for i, t := range tests {
		if err := csvWriter.Write(t.Fields()); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
