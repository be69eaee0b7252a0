// Package main provides the labscan command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/labscan"
	"github.com/tsawler/labscan/internal/config"
	"github.com/tsawler/labscan/internal/observability"
	"github.com/tsawler/labscan/ocr"
)

var (
	// Global flags
	cfgFile        string
	preprocessFlag bool
	spellcheckFlag bool
	dictionaryPath string
	noColor        bool

	// Configuration and logger. The logger is replaced once configuration
	// has been loaded.
	cfg    *config.Config
	logger = observability.DefaultLogger()
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "labscan",
	Short: "Extract lab test results from images of printed lab reports",
	Long: `labscan reads an image of a laboratory report, recognizes its text with
Tesseract and returns every test it finds with its value, unit, reference
range and whether the value is out of range.

Configuration is read from --config (YAML), then LABSCAN_* environment
variables and a .env file in the working directory. Command line flags
override both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("preprocess") {
			cfg.Pipeline.Preprocessing = preprocessFlag
		}
		if flags.Changed("spellcheck") {
			cfg.Pipeline.SpellCorrection = spellcheckFlag
		}
		if flags.Changed("dictionary") {
			cfg.Pipeline.DictionaryPath = dictionaryPath
		}
		if noColor {
			color.NoColor = true
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.Observability.LogLevel,
			Format:      cfg.Observability.LogFormat,
			ServiceName: cfg.Observability.ServiceName,
			NoColor:     noColor,
		})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: defaults and env vars)")
	rootCmd.PersistentFlags().BoolVar(&preprocessFlag, "preprocess", true, "binarize images before OCR")
	rootCmd.PersistentFlags().BoolVar(&spellcheckFlag, "spellcheck", false, "spell-correct recognized text (joins all lines)")
	rootCmd.PersistentFlags().StringVar(&dictionaryPath, "dictionary", "", "word frequency file for spelling correction")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newScanner builds a Scanner from the loaded configuration.
func newScanner(rec ocr.Recognizer) (*labscan.Scanner, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	speller, err := cfg.Speller()
	if err != nil {
		return nil, err
	}

	return labscan.New(rec,
		labscan.WithPreprocessing(cfg.Pipeline.Preprocessing),
		labscan.WithSpellCorrection(cfg.Pipeline.SpellCorrection),
		labscan.WithTable(table),
		labscan.WithSpeller(speller),
	)
}

// newRecognizer creates the Tesseract client for the configured languages.
func newRecognizer() (ocr.Recognizer, error) {
	client, err := ocr.New(ocr.WithLanguages(cfg.Pipeline.Languages...))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the linked Tesseract version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := ocr.Version()
			if v == "" {
				v = "not enabled (build with -tags ocr)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tesseract: %s\n", v)
			return nil
		},
	}
}
