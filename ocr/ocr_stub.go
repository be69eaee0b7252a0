//go:build !ocr

package ocr

import (
	"context"
	"fmt"
)

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New(opts ...Option) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Version returns an empty string when Tesseract is not linked.
func Version() string {
	return ""
}

// Recognize returns an error indicating OCR support is not enabled.
// It is safe to call on a nil client.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	return "", fmt.Errorf("%w: %w", ErrOCRFailure, ErrOCRNotEnabled)
}
