// Package labscan extracts structured lab test results from images of printed
// laboratory reports.
//
// A Scanner runs a fixed pipeline: the image is decoded and binarized, passed
// to an OCR engine, the recognized text is normalized, and a grammar pulls
// name, value, unit and reference range out of each line. Every record is
// flagged when its value lies outside the reference range.
//
// Basic usage:
//
//	client, err := ocr.New()
//	if err != nil {
//	    // handle error
//	}
//	scanner, err := labscan.New(client)
//	if err != nil {
//	    // handle error
//	}
//	tests, warnings, err := scanner.Scan(ctx, imageBytes)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", labscan.FormatWarnings(warnings))
//	}
//
// With options:
//
//	scanner, err := labscan.New(client,
//	    labscan.WithSpellCorrection(true),
//	    labscan.WithTable(table),
//	)
//
// Text that has already been recognized can be parsed with [Scanner.ScanText],
// which needs no OCR engine at all.
package labscan

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	scanner := labscan.Must(labscan.New(client))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
