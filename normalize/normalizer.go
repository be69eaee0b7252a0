package normalize

import "strings"

// Normalizer applies the correction table and, on request, per-token
// spelling correction.
type Normalizer struct {
	table   Table
	speller Speller
}

// New creates a Normalizer. speller may be nil, in which case spelling
// correction is never applied.
func New(table Table, speller Speller) *Normalizer {
	return &Normalizer{table: table, speller: speller}
}

// Table returns the correction table in use.
func (n *Normalizer) Table() Table {
	return n.table
}

// Normalize returns text with known misreadings fixed. When correct is true
// and a speller is configured, every token is also spell-corrected, which
// collapses all whitespace (including line breaks) to single spaces.
func (n *Normalizer) Normalize(text string, correct bool) string {
	text = n.table.Apply(text)
	if correct && n.speller != nil {
		text = CorrectWords(text, n.speller)
	}
	return text
}

// CorrectWords splits text on whitespace, corrects each token independently
// and joins the tokens with single spaces.
func CorrectWords(text string, speller Speller) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = speller.Correct(w)
	}
	return strings.Join(words, " ")
}
