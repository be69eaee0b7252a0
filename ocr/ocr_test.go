//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// createTextPNG renders a line of text in the basic bitmap font, scaled up
// so Tesseract has a chance of reading it.
func createTextPNG(t *testing.T, text string) []byte {
	t.Helper()

	small := image.NewRGBA(image.Rect(0, 0, 8*len(text)+20, 30))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(text)

	const scale = 4
	b := small.Bounds()
	big := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < big.Bounds().Dy(); y++ {
		for x := 0; x < big.Bounds().Dx(); x++ {
			big.Set(x, y, small.At(x/scale, y/scale))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, big); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if client == nil {
		t.Error("Expected non-nil client")
	}
	if Version() == "" {
		t.Error("Expected a Tesseract version")
	}
}

func TestRecognize(t *testing.T) {
	client, err := New(WithLanguages("eng"), WithPageSegMode(PSM_SINGLE_LINE))
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	text, err := client.Recognize(context.Background(), createTextPNG(t, "HEMOGLOBIN"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	// Bitmap fonts are not always read perfectly; only check the bulk of it.
	if !strings.Contains(strings.ToUpper(text), "HEMOGLO") {
		t.Logf("recognized text: %q", text)
	}
}

func TestRecognizeGarbage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	_, err = client.Recognize(context.Background(), []byte("definitely not an image"))
	if err == nil {
		t.Fatal("expected error for non-image input")
	}
	if !errors.Is(err, ErrOCRFailure) {
		t.Errorf("expected ErrOCRFailure, got %v", err)
	}
}

func TestRecognizeCancelled(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Recognize(ctx, createTextPNG(t, "WBC")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
