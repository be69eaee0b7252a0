//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
//
// Each Recognize call uses its own gosseract client, so a single Client may
// be shared by concurrent requests.
type Client struct {
	opts      options
	newClient func() *gosseract.Client
}

// New creates a new OCR client.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{opts: o, newClient: gosseract.NewClient}, nil
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	return gosseract.Version()
}

// Recognize performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
// Every engine error wraps ErrOCRFailure.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := c.newClient()
	defer client.Close()

	if err := client.SetLanguage(c.opts.languages...); err != nil {
		return "", fmt.Errorf("%w: failed to set language: %w", ErrOCRFailure, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(c.opts.psm)); err != nil {
		return "", fmt.Errorf("%w: failed to set page segmentation mode: %w", ErrOCRFailure, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("%w: failed to set image: %w", ErrOCRFailure, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOCRFailure, err)
	}

	return strings.TrimSpace(text), nil
}
