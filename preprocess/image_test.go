package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/tsawler/labscan/format"
)

// createTestImage creates an RGBA image filled with white and a black bar,
// roughly what a line of printed text looks like after scanning.
func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for y := height / 4; y < height/2; y++ {
		for x := 2; x < width-2; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func encode(t *testing.T, f format.Format, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch f {
	case format.PNG:
		err = png.Encode(&buf, img)
	case format.JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case format.BMP:
		err = bmp.Encode(&buf, img)
	case format.TIFF:
		err = tiff.Encode(&buf, img, nil)
	default:
		t.Fatalf("no encoder for %v", f)
	}
	if err != nil {
		t.Fatalf("encode %v: %v", f, err)
	}
	return buf.Bytes()
}

// ============================================================================
// Decode Tests
// ============================================================================

func TestDecode(t *testing.T) {
	img := createTestImage(40, 20)

	for _, f := range []format.Format{format.PNG, format.JPEG, format.BMP, format.TIFF} {
		t.Run(f.String(), func(t *testing.T) {
			decoded, got, err := Decode(encode(t, f, img))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != f {
				t.Errorf("Decode() format = %v, want %v", got, f)
			}
			if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 20 {
				t.Errorf("Decode() bounds = %v, want 40x20", decoded.Bounds())
			}
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"text", []byte("Hemoglobin 13.5 g/dL 13.0-17.0")},
		{"truncated png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}
}

// ============================================================================
// Binarize Tests
// ============================================================================

func TestBinarizeThreshold(t *testing.T) {
	tests := []struct {
		name  string
		level uint8
		want  uint8
	}{
		{"black", 0, Foreground},
		{"just below threshold", 149, Foreground},
		{"at threshold", 150, Background},
		{"just above threshold", 151, Background},
		{"white", 255, Background},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewGray(image.Rect(0, 0, 3, 2))
			for i := range img.Pix {
				img.Pix[i] = tt.level
			}

			out := Binarize(img)
			for i, p := range out.Pix {
				if p != tt.want {
					t.Fatalf("pixel %d = %d, want %d", i, p, tt.want)
				}
			}
		})
	}
}

func TestBinarizeColor(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want uint8
	}{
		// luma(255,0,0) = 76
		{"red", color.RGBA{R: 255, A: 255}, Foreground},
		// luma(0,255,0) = 150
		{"green", color.RGBA{G: 255, A: 255}, Background},
		// luma(0,0,255) = 29
		{"blue", color.RGBA{B: 255, A: 255}, Foreground},
		{"light gray", color.RGBA{R: 200, G: 200, B: 200, A: 255}, Background},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, 1))
			img.Set(0, 0, tt.c)
			if got := Binarize(img).GrayAt(0, 0).Y; got != tt.want {
				t.Errorf("Binarize(%v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}

func TestBinarizePreservesDimensions(t *testing.T) {
	src := createTestImage(37, 11)
	out := Binarize(src)

	if out.Bounds().Dx() != 37 || out.Bounds().Dy() != 11 {
		t.Errorf("Binarize() bounds = %v, want 37x11", out.Bounds())
	}

	// Text pixels (black bar) become foreground, paper becomes background.
	if got := out.GrayAt(10, 11/4).Y; got != Foreground {
		t.Errorf("bar pixel = %d, want %d", got, Foreground)
	}
	if got := out.GrayAt(0, 0).Y; got != Background {
		t.Errorf("paper pixel = %d, want %d", got, Background)
	}
}

func TestBinarizeOffsetBounds(t *testing.T) {
	// A sub-image keeps its parent's coordinates; the output is re-anchored.
	parent := createTestImage(20, 20)
	sub := parent.SubImage(image.Rect(5, 5, 15, 12))

	out := Binarize(sub)
	if out.Bounds() != image.Rect(0, 0, 10, 7) {
		t.Errorf("Binarize() bounds = %v, want (0,0)-(10,7)", out.Bounds())
	}
}

func TestBinarizeEmpty(t *testing.T) {
	out := Binarize(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if out.Bounds().Dx() != 0 || out.Bounds().Dy() != 0 {
		t.Errorf("expected empty output, got %v", out.Bounds())
	}
}

// ============================================================================
// Prepare Tests
// ============================================================================

func TestPreparePassThrough(t *testing.T) {
	data := encode(t, format.JPEG, createTestImage(16, 16))

	out, f, err := Prepare(data, false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if f != format.JPEG {
		t.Errorf("Prepare() format = %v, want JPEG", f)
	}
	if !bytes.Equal(out, data) {
		t.Error("expected original bytes when binarization is disabled")
	}
}

func TestPrepareBinarize(t *testing.T) {
	data := encode(t, format.JPEG, createTestImage(16, 16))

	out, f, err := Prepare(data, true)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if f != format.PNG {
		t.Errorf("Prepare() format = %v, want PNG", f)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("expected *image.Gray output, got %T", img)
	}
}

func TestPrepareRejectsGarbage(t *testing.T) {
	for _, binarize := range []bool{true, false} {
		_, _, err := Prepare([]byte("not an image"), binarize)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Prepare(binarize=%v) error = %v, want ErrDecode", binarize, err)
		}
	}
}
