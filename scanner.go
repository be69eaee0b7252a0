package labscan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/labscan/labtest"
	"github.com/tsawler/labscan/model"
	"github.com/tsawler/labscan/normalize"
	"github.com/tsawler/labscan/ocr"
	"github.com/tsawler/labscan/preprocess"
)

// ErrNoRecognizer is returned by Scan when the Scanner has no OCR engine.
var ErrNoRecognizer = errors.New("no OCR recognizer configured")

// Scanner runs the lab report pipeline. Each configuration method returns a
// new Scanner, so a Scanner is safe for concurrent use and can be shared
// across requests.
type Scanner struct {
	recognizer ocr.Recognizer
	options    scanOptions

	normalizer *normalize.Normalizer
	extractor  *labtest.Extractor
}

// New creates a Scanner that recognizes text with recognizer. recognizer may
// be nil when only ScanText will be used. An error is returned if the
// configured grammar does not compile.
func New(recognizer ocr.Recognizer, opts ...Option) (*Scanner, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	extractor, err := labtest.NewExtractor(options.grammar)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}

	return &Scanner{
		recognizer: recognizer,
		options:    options,
		normalizer: normalize.New(options.table, options.speller),
		extractor:  extractor,
	}, nil
}

// clone creates a copy of the Scanner sharing its immutable collaborators.
func (s *Scanner) clone() *Scanner {
	return &Scanner{
		recognizer: s.recognizer,
		options:    s.options.clone(),
		normalizer: s.normalizer,
		extractor:  s.extractor,
	}
}

// ============================================================================
// Configuration Methods (return new Scanner instance)
// ============================================================================

// Preprocessing returns a copy of the Scanner with binarization enabled or
// disabled.
//
// Example:
//
//	tests, _, err := scanner.Preprocessing(false).Scan(ctx, data)
func (s *Scanner) Preprocessing(enabled bool) *Scanner {
	newScanner := s.clone()
	newScanner.options.preprocessing = enabled
	return newScanner
}

// SpellCorrection returns a copy of the Scanner with spelling correction
// enabled or disabled.
func (s *Scanner) SpellCorrection(enabled bool) *Scanner {
	newScanner := s.clone()
	newScanner.options.spellCorrection = enabled
	return newScanner
}

// PreprocessingEnabled reports whether images are binarized before OCR.
func (s *Scanner) PreprocessingEnabled() bool {
	return s.options.preprocessing
}

// SpellCorrectionEnabled reports whether recognized text is spell-corrected.
func (s *Scanner) SpellCorrectionEnabled() bool {
	return s.options.spellCorrection
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Scan runs the full pipeline on an encoded image. Errors wrap
// preprocess.ErrDecode when the bytes are not a supported image and
// ocr.ErrOCRFailure when recognition fails. Records that match the grammar
// but cannot be evaluated are reported as warnings.
func (s *Scanner) Scan(ctx context.Context, image []byte) ([]model.LabTest, []Warning, error) {
	if s.recognizer == nil {
		return nil, nil, ErrNoRecognizer
	}

	data, _, err := preprocess.Prepare(image, s.options.preprocessing)
	if err != nil {
		return nil, nil, fmt.Errorf("preparing image: %w", err)
	}

	text, err := s.recognizer.Recognize(ctx, data)
	if err != nil {
		if !errors.Is(err, ocr.ErrOCRFailure) {
			err = fmt.Errorf("%w: %w", ocr.ErrOCRFailure, err)
		}
		return nil, nil, err
	}

	tests, warnings := s.ScanText(text)
	return tests, warnings, nil
}

// ScanText normalizes already-recognized text and extracts lab tests from
// it. It never fails; problems are reported as warnings.
func (s *Scanner) ScanText(text string) ([]model.LabTest, []Warning) {
	if strings.TrimSpace(text) == "" {
		return nil, []Warning{{Kind: WarningEmptyText, Message: "no text was recognized"}}
	}

	normalized := s.normalizer.Normalize(text, s.options.spellCorrection)
	tests, drops := s.extractor.Extract(normalized)

	var warnings []Warning
	for _, d := range drops {
		warnings = append(warnings, Warning{Kind: WarningDroppedRecord, Message: d.Error()})
	}
	if len(tests) == 0 {
		warnings = append(warnings, Warning{Kind: WarningNoTests, Message: "no lab tests found in recognized text"})
	}

	return tests, warnings
}

// Process runs Scan and wraps the result in a response envelope. A panic in
// any collaborator is recovered and returned as an error. The response is
// always usable: on error it is the failure envelope.
func (s *Scanner) Process(ctx context.Context, image []byte) (resp model.Response, warnings []Warning, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = model.Failure()
			warnings = nil
			err = fmt.Errorf("scan panicked: %v", r)
		}
	}()

	tests, warnings, err := s.Scan(ctx, image)
	if err != nil {
		return model.Failure(), nil, err
	}
	return model.Success(tests), warnings, nil
}

// Respond runs the pipeline and returns the response envelope, discarding
// errors and warnings. It never fails.
func (s *Scanner) Respond(ctx context.Context, image []byte) model.Response {
	resp, _, _ := s.Process(ctx, image)
	return resp
}
