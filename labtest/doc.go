// Package labtest parses normalized OCR text into lab test records.
//
// # Grammar
//
// A lab test line is described by a [Grammar] with five parts, matched in
// order:
//
//  1. name: letters, whitespace and parentheses (greedy)
//  2. separator: an optional ':' or '-', with optional whitespace around it
//  3. value: an integer or decimal number
//  4. unit: letters, digits and '/', '%', '^', 'µ'
//  5. range: two numbers joined by exactly one '-'
//
// [Grammar.Compile] assembles the parts into a single named-capture regular
// expression. Each part can also be matched on its own with
// [Grammar.MatchField], which is how the boundary rules are tested.
//
// Matches are found left to right and never overlap. Because the name is
// greedy and may contain newlines, a record that is not separated from the
// previous one by a clear line break can pull stray characters into its name.
// This is a known accuracy limitation of the grammar.
//
// The unit admits digits, so when no space separates the unit from the
// range, or a line has no unit at all, the unit takes leading digits of the
// range: "Glucose 90 70-100" yields unit "7" and range "0-100", and
// "13.5 g/dL13.0-17.0" yields unit "g/dL1" and range "3.0-17.0". The range
// that remains is still well formed and is evaluated as captured.
//
// # Range Evaluation
//
// [Evaluate] parses the value and the "low-high" range as float64 and reports
// whether the value lies outside the closed interval [low, high]. A record
// whose numbers do not parse, or whose range is inverted, is dropped by the
// [Extractor] and reported as a [Drop] rather than failing the whole report.
package labtest
