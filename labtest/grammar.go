package labtest

import (
	"fmt"
	"regexp"
)

// Field identifies one part of the grammar.
type Field int

const (
	// FieldName is the test name span.
	FieldName Field = iota
	// FieldSeparator is the optional ':' or '-' after the name.
	FieldSeparator
	// FieldValue is the measured value.
	FieldValue
	// FieldUnit is the unit token.
	FieldUnit
	// FieldRange is the "low-high" reference range.
	FieldRange
)

// String returns the capture group name of the field.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldSeparator:
		return "separator"
	case FieldValue:
		return "value"
	case FieldUnit:
		return "unit"
	case FieldRange:
		return "range"
	default:
		return "unknown"
	}
}

// Grammar holds the sub-patterns of a lab test line. Patterns use RE2
// syntax and must not contain capture groups of their own; use (?:...) for
// grouping.
type Grammar struct {
	Name      string
	Separator string
	Value     string
	Unit      string
	Range     string
}

// DefaultGrammar returns the grammar used for printed lab reports.
//
// The range pattern admits exactly one '-' between two numbers, each of
// which is a valid float64, so every range it captures is splittable.
func DefaultGrammar() Grammar {
	return Grammar{
		Name:      `[A-Za-z\s()]+`,
		Separator: `[:\-]`,
		Value:     `\d+(?:\.\d+)?`,
		Unit:      `[A-Za-z0-9/%^µμ]+`,
		Range:     `\d+(?:\.\d+)?-\d+(?:\.\d+)?`,
	}
}

// Pattern returns the sub-pattern for field.
func (g Grammar) Pattern(field Field) string {
	switch field {
	case FieldName:
		return g.Name
	case FieldSeparator:
		return g.Separator
	case FieldValue:
		return g.Value
	case FieldUnit:
		return g.Unit
	case FieldRange:
		return g.Range
	default:
		return ""
	}
}

// String returns the assembled regular expression.
func (g Grammar) String() string {
	return fmt.Sprintf(`(?P<name>%s)\s*(?:%s)?\s*(?P<value>%s)\s*(?P<unit>%s)\s*(?P<range>%s)`,
		g.Name, g.Separator, g.Value, g.Unit, g.Range)
}

// Compile assembles and compiles the grammar.
func (g Grammar) Compile() (*regexp.Regexp, error) {
	for _, f := range []Field{FieldName, FieldSeparator, FieldValue, FieldUnit, FieldRange} {
		p := g.Pattern(f)
		if p == "" {
			return nil, fmt.Errorf("grammar %s pattern is empty", f)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("grammar %s pattern: %w", f, err)
		}
		if re.NumSubexp() != 0 {
			return nil, fmt.Errorf("grammar %s pattern must not contain capture groups", f)
		}
	}

	re, err := regexp.Compile(g.String())
	if err != nil {
		return nil, fmt.Errorf("compiling grammar: %w", err)
	}
	return re, nil
}

// MatchField reports whether s, in its entirety, matches the pattern of
// field.
func (g Grammar) MatchField(field Field, s string) (bool, error) {
	p := g.Pattern(field)
	if p == "" {
		return false, fmt.Errorf("grammar %s pattern is empty", field)
	}
	return regexp.MatchString(`^(?:`+p+`)$`, s)
}
