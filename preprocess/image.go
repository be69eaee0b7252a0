package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/labscan/format"
)

// Binary-inverse threshold parameters on a 0-255 intensity scale.
const (
	Threshold  uint8 = 150
	Foreground uint8 = 255
	Background uint8 = 0
)

// ErrDecode is returned when input bytes are not a decodable image.
var ErrDecode = errors.New("image decode failed")

// Decode decodes raw image bytes. The detected format is returned alongside
// the image; it is format.Unknown only if the magic bytes were not recognized
// but a registered decoder still accepted the data.
func Decode(data []byte) (image.Image, format.Format, error) {
	if len(data) == 0 {
		return nil, format.Unknown, fmt.Errorf("%w: empty input", ErrDecode)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format.Unknown, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, format.DetectFromMagic(data), nil
}

// Binarize converts img to grayscale and applies the fixed binary-inverse
// threshold. The result has the same width and height as img, anchored at
// the origin.
func Binarize(img image.Image) *image.Gray {
	// imaging.Grayscale writes the luma value into R, G and B of an NRGBA
	// image; only R is read below.
	gray := imaging.Grayscale(img)

	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+width*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+width]
		for x := range dst {
			if src[x*4] < Threshold {
				dst[x] = Foreground
			} else {
				dst[x] = Background
			}
		}
	}

	return out
}

// EncodePNG encodes img as PNG, the hand-off format for the OCR engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepare validates data as an image and returns the bytes to hand to the
// OCR engine. With binarize set the image is binarized and re-encoded as
// PNG; otherwise data is returned as-is.
func Prepare(data []byte, binarize bool) ([]byte, format.Format, error) {
	img, f, err := Decode(data)
	if err != nil {
		return nil, format.Unknown, err
	}

	if !binarize {
		return data, f, nil
	}

	out, err := EncodePNG(Binarize(img))
	if err != nil {
		return nil, f, err
	}
	return out, format.PNG, nil
}
