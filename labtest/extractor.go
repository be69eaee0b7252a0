package labtest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/labscan/model"
)

// Candidate is a grammar match before numeric evaluation. Fields are trimmed
// of surrounding whitespace but otherwise verbatim.
type Candidate struct {
	Name   string
	Value  string
	Unit   string
	Range  string
	Offset int // byte offset of the match in the input text
	Span   string
}

// Drop records a candidate that matched the grammar but was not emitted.
type Drop struct {
	Candidate Candidate
	Err       error
}

// Error implements the error interface so drops can be logged or joined.
func (d Drop) Error() string {
	return fmt.Sprintf("record at offset %d (%q): %v", d.Candidate.Offset, d.Candidate.Span, d.Err)
}

// Unwrap returns the underlying parse error.
func (d Drop) Unwrap() error {
	return d.Err
}

// Extractor applies a compiled Grammar to text. It holds no mutable state
// and is safe for concurrent use.
type Extractor struct {
	grammar Grammar
	re      *regexp.Regexp
	name    int
	value   int
	unit    int
	rng     int
}

var defaultExtractor = MustExtractor(DefaultGrammar())

// NewExtractor compiles g into an Extractor.
func NewExtractor(g Grammar) (*Extractor, error) {
	re, err := g.Compile()
	if err != nil {
		return nil, err
	}
	return &Extractor{
		grammar: g,
		re:      re,
		name:    re.SubexpIndex(FieldName.String()),
		value:   re.SubexpIndex(FieldValue.String()),
		unit:    re.SubexpIndex(FieldUnit.String()),
		rng:     re.SubexpIndex(FieldRange.String()),
	}, nil
}

// MustExtractor is like NewExtractor but panics if the grammar does not
// compile.
func MustExtractor(g Grammar) *Extractor {
	e, err := NewExtractor(g)
	if err != nil {
		panic(err)
	}
	return e
}

// DefaultExtractor returns the shared Extractor for DefaultGrammar.
func DefaultExtractor() *Extractor {
	return defaultExtractor
}

// Grammar returns the grammar the extractor was built from.
func (e *Extractor) Grammar() Grammar {
	return e.grammar
}

// Candidates returns every non-overlapping grammar match in text, left to
// right.
func (e *Extractor) Candidates(text string) []Candidate {
	matches := e.re.FindAllStringSubmatchIndex(text, -1)
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, Candidate{
			Name:   group(text, m, e.name),
			Value:  group(text, m, e.value),
			Unit:   group(text, m, e.unit),
			Range:  group(text, m, e.rng),
			Offset: m[0],
			Span:   strings.TrimSpace(text[m[0]:m[1]]),
		})
	}
	return candidates
}

// Extract returns the lab tests found in text, in text order. Candidates
// whose name is blank or whose value or range does not parse are returned
// as drops instead.
func (e *Extractor) Extract(text string) ([]model.LabTest, []Drop) {
	var tests []model.LabTest
	var drops []Drop

	for _, c := range e.Candidates(text) {
		test, err := c.Evaluate()
		if err != nil {
			drops = append(drops, Drop{Candidate: c, Err: err})
			continue
		}
		tests = append(tests, test)
	}

	return tests, drops
}

// Evaluate converts the candidate into a LabTest, computing the
// out-of-range flag.
func (c Candidate) Evaluate() (model.LabTest, error) {
	if c.Name == "" {
		return model.LabTest{}, fmt.Errorf("%w: empty test name", ErrRecordParse)
	}
	if c.Value == "" || c.Unit == "" || c.Range == "" {
		return model.LabTest{}, fmt.Errorf("%w: incomplete record", ErrRecordParse)
	}

	outOfRange, err := Evaluate(c.Value, c.Range)
	if err != nil {
		return model.LabTest{}, err
	}

	return model.LabTest{
		TestName:          c.Name,
		TestValue:         c.Value,
		BioReferenceRange: c.Range,
		TestUnit:          c.Unit,
		OutOfRange:        outOfRange,
	}, nil
}

// Extract runs the default extractor over text.
func Extract(text string) ([]model.LabTest, []Drop) {
	return defaultExtractor.Extract(text)
}

// group returns the trimmed text of capture group i in match m.
func group(text string, m []int, i int) string {
	if i < 0 || 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return strings.TrimSpace(text[m[2*i]:m[2*i+1]])
}
