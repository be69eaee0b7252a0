package labscan

import (
	"github.com/tsawler/labscan/labtest"
	"github.com/tsawler/labscan/normalize"
)

// scanOptions holds configuration for a Scanner.
type scanOptions struct {
	// Image processing
	preprocessing bool

	// Text normalization
	spellCorrection bool
	table           normalize.Table
	speller         normalize.Speller // nil disables correction regardless of spellCorrection

	// Field extraction
	grammar labtest.Grammar
}

// defaultOptions returns the default scan options.
func defaultOptions() scanOptions {
	return scanOptions{
		preprocessing:   true,
		spellCorrection: false,
		table:           normalize.DefaultTable(),
		speller:         normalize.DefaultDictionary(),
		grammar:         labtest.DefaultGrammar(),
	}
}

// clone creates a copy of scanOptions. Tables, spellers and grammars are
// immutable, so a shallow copy is sufficient.
func (o scanOptions) clone() scanOptions {
	return o
}

// Option configures a Scanner.
type Option func(*scanOptions)

// WithPreprocessing enables or disables binarization before OCR. The image
// is still decoded either way, so undecodable input always fails.
func WithPreprocessing(enabled bool) Option {
	return func(o *scanOptions) {
		o.preprocessing = enabled
	}
}

// WithSpellCorrection enables or disables per-word spelling correction.
// Enabling it collapses line breaks in the recognized text.
func WithSpellCorrection(enabled bool) Option {
	return func(o *scanOptions) {
		o.spellCorrection = enabled
	}
}

// WithTable replaces the OCR misreading table.
func WithTable(table normalize.Table) Option {
	return func(o *scanOptions) {
		o.table = table
	}
}

// WithSpeller replaces the spelling corrector.
func WithSpeller(speller normalize.Speller) Option {
	return func(o *scanOptions) {
		o.speller = speller
	}
}

// WithGrammar replaces the field grammar.
func WithGrammar(grammar labtest.Grammar) Option {
	return func(o *scanOptions) {
		o.grammar = grammar
	}
}
