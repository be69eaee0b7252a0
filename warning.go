package labscan

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal issue found while scanning.
type WarningKind int

const (
	// WarningDroppedRecord means a line matched the grammar but its value or
	// range could not be evaluated, so it was left out of the results.
	WarningDroppedRecord WarningKind = iota
	// WarningEmptyText means OCR produced no text.
	WarningEmptyText
	// WarningNoTests means text was recognized but no lab tests were found.
	WarningNoTests
)

// String returns a short name for the kind.
func (k WarningKind) String() string {
	switch k {
	case WarningDroppedRecord:
		return "dropped-record"
	case WarningEmptyText:
		return "empty-text"
	case WarningNoTests:
		return "no-tests"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue. A scan that returns warnings still
// succeeded.
type Warning struct {
	Kind    WarningKind
	Message string
}

// String formats the warning as "kind: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings joins warnings into a single human-readable string, one per
// line. It returns "" for no warnings.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
