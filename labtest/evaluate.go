package labtest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrRecordParse is wrapped by every error that causes a single record
	// to be dropped.
	ErrRecordParse = errors.New("record parse failed")

	// ErrInvertedRange is returned for ranges whose low bound exceeds the
	// high bound, such as "17.0-13.0".
	ErrInvertedRange = errors.New("inverted reference range")
)

// Range is a closed reference interval.
type Range struct {
	Low  float64
	High float64
}

// ParseRange parses a "low-high" reference range. The string must contain
// exactly one '-' and both halves must parse as float64. Inverted ranges are
// rejected with ErrInvertedRange.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: range %q must have exactly one '-'", ErrRecordParse, s)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: range low bound %q: %w", ErrRecordParse, parts[0], err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: range high bound %q: %w", ErrRecordParse, parts[1], err)
	}

	if low > high {
		return Range{}, fmt.Errorf("%w: %w: %q", ErrRecordParse, ErrInvertedRange, s)
	}
	return Range{Low: low, High: high}, nil
}

// Contains reports whether v lies within [Low, High]. Both bounds are
// inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Outside reports whether v < Low or v > High.
func (r Range) Outside(v float64) bool {
	return v < r.Low || v > r.High
}

// String formats the range as "low-high".
func (r Range) String() string {
	return strconv.FormatFloat(r.Low, 'f', -1, 64) + "-" + strconv.FormatFloat(r.High, 'f', -1, 64)
}

// ParseValue parses a measured value as float64.
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q: %w", ErrRecordParse, s, err)
	}
	return v, nil
}

// Evaluate reports whether value falls outside rng: true iff
// value < low or value > high. Boundary values are in range.
func Evaluate(value, rng string) (bool, error) {
	v, err := ParseValue(value)
	if err != nil {
		return false, err
	}
	r, err := ParseRange(rng)
	if err != nil {
		return false, err
	}
	return r.Outside(v), nil
}
