package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/labscan"
	"github.com/tsawler/labscan/export"
	"github.com/tsawler/labscan/format"
	"github.com/tsawler/labscan/model"
)

// outputOptions are shared by scan and parse.
type outputOptions struct {
	format         string
	output         string
	onlyOutOfRange bool
	pretty         bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "table", "output format: table, json, jsonl, csv or tsv")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write results to a file instead of stdout")
	cmd.Flags().BoolVar(&o.onlyOutOfRange, "out-of-range", false, "only show tests outside their reference range")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "indent JSON output")
}

// write renders tests in the selected format.
func (o *outputOptions) write(stdout io.Writer, tests []model.LabTest) error {
	if o.format == "table" && o.output == "" {
		if o.onlyOutOfRange {
			tests = model.OutOfRangeTests(tests)
		}
		printTable(stdout, tests)
		return nil
	}

	f, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	exportCfg := export.ConfigFor(f)
	exportCfg.OnlyOutOfRange = o.onlyOutOfRange
	exportCfg.PrettyPrint = o.pretty
	exporter := export.New(exportCfg)

	if o.output != "" {
		return exporter.WriteToFile(o.output, tests)
	}
	return exporter.Write(stdout, tests)
}

// newScanCmd creates the scan subcommand.
func newScanCmd() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Extract lab tests from a report image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			rec, err := newRecognizer()
			if err != nil {
				return err
			}
			scanner, err := newScanner(rec)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			start := time.Now()
			tests, warnings, err := scanner.Scan(ctx, data)
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			logger.WithOperation("scan").Debug().
				Str("file", args[0]).
				Str("format", format.Sniff(data, args[0]).String()).
				Int("records", len(tests)).
				Dur("duration", time.Since(start)).
				Msg("Scan completed")
			printWarnings(cmd.ErrOrStderr(), warnings)

			return out.write(cmd.OutOrStdout(), tests)
		},
	}

	out.register(cmd)
	return cmd
}

// newParseCmd creates the parse subcommand.
func newParseCmd() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "parse <textfile|->",
		Short: "Extract lab tests from already-recognized text",
		Long: `parse runs text normalization and field extraction on plain text, skipping
image processing and OCR. Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read text: %w", err)
			}

			scanner, err := newScanner(nil)
			if err != nil {
				return err
			}

			tests, warnings := scanner.ScanText(string(data))
			printWarnings(cmd.ErrOrStderr(), warnings)

			return out.write(cmd.OutOrStdout(), tests)
		},
	}

	out.register(cmd)
	return cmd
}

// printWarnings writes warnings to w in yellow.
func printWarnings(w io.Writer, warnings []labscan.Warning) {
	for _, warn := range warnings {
		warningColor.Fprintf(w, "⚠ %s\n", warn)
	}
}
