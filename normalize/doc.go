// Package normalize corrects systematic OCR recognition errors before the
// text is parsed into lab test records.
//
// Normalization runs in two steps:
//
//  1. A fixed [Table] of known misreadings is applied as plain,
//     case-sensitive substring replacement, entry by entry in table order.
//     A later entry sees the text produced by earlier ones.
//  2. Optionally, every whitespace-separated token is passed through a
//     [Speller] and the tokens are re-joined with single spaces.
//
// Step 2 destroys line structure: all line breaks become single spaces. The
// lab test grammar relies on line breaks to separate adjacent records, so
// enabling spell correction can change which records are extracted. This is
// a known trade-off of the corrected pipeline variant and is left as is.
//
// Tables and dictionaries are immutable after construction and can be
// shared across goroutines.
//
//	n := normalize.New(normalize.DefaultTable(), normalize.DefaultDictionary())
//	clean := n.Normalize(raw, false)
package normalize
