// Package preprocess prepares uploaded report images for OCR.
//
// # Decoding
//
// Use [Decode] to turn raw upload bytes into an image.Image. PNG, JPEG and
// GIF are handled by the standard library; BMP, TIFF and WebP decoders are
// registered from golang.org/x/image. Bytes that are not a decodable image
// produce an error wrapping [ErrDecode].
//
// # Binarization
//
// [Binarize] converts any image to a single-channel, black-and-white image
// tuned for Tesseract:
//
//   - convert to grayscale intensity (ITU-R 601 luma weights)
//   - apply a fixed binary-inverse threshold: pixels darker than [Threshold]
//     become [Foreground] (255), everything else becomes [Background] (0)
//
// The threshold is a fixed constant. There is no adaptive or per-image
// calibration, and Binarize never fails.
//
// # Preparing OCR Input
//
// [Prepare] combines the two: it always decodes (so corrupt uploads are
// classified before the OCR engine sees them) and, when binarization is
// requested, re-encodes the binarized image as PNG. Otherwise the original
// bytes are returned untouched.
package preprocess
