// Package ocr provides OCR (Optical Character Recognition) for scanned lab
// reports.
//
// The pipeline only depends on the [Recognizer] interface. The Tesseract
// implementation wraps the engine via gosseract and is compiled in with the
// "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, [New] returns [ErrOCRNotEnabled] and callers can still
// plug in any other engine through [RecognizerFunc].
package ocr

import (
	"context"
	"errors"
)

// ErrOCRFailure wraps every error raised by an OCR engine.
var ErrOCRFailure = errors.New("OCR failed")

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Recognizer turns an encoded image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

var _ Recognizer = (*Client)(nil)

// RecognizerFunc adapts an ordinary function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, image []byte) (string, error)

// Recognize calls f(ctx, image).
func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes (values match Tesseract's tessedit_pageseg_mode).
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Option configures a Tesseract client.
type Option func(*options)

type options struct {
	languages []string
	psm       PageSegMode
}

func defaultOptions() options {
	return options{
		languages: []string{"eng"},
		psm:       PSM_AUTO,
	}
}

// WithLanguages sets the language(s) for recognition (e.g. "eng", "deu").
// Reports are expected to be single-language; passing several is allowed
// but not tuned for.
func WithLanguages(langs ...string) Option {
	return func(o *options) {
		if len(langs) > 0 {
			o.languages = append([]string(nil), langs...)
		}
	}
}

// WithPageSegMode sets the page segmentation mode.
func WithPageSegMode(mode PageSegMode) Option {
	return func(o *options) { o.psm = mode }
}
