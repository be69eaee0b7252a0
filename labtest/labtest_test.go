package labtest

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/labscan/model"
)

// ============================================================================
// Grammar Tests
// ============================================================================

func TestGrammarMatchField(t *testing.T) {
	g := DefaultGrammar()

	tests := []struct {
		field Field
		input string
		want  bool
	}{
		{FieldName, "Hemoglobin", true},
		{FieldName, "Total Cholesterol (HDL)", true},
		{FieldName, "Hb1", false},
		{FieldName, "Na+", false},
		{FieldSeparator, ":", true},
		{FieldSeparator, "-", true},
		{FieldSeparator, "::", false},
		{FieldSeparator, "=", false},
		{FieldValue, "13", true},
		{FieldValue, "13.5", true},
		{FieldValue, "13.", false},
		{FieldValue, ".5", false},
		{FieldValue, "-1", false},
		{FieldUnit, "g/dL", true},
		{FieldUnit, "10^3/uL", true},
		{FieldUnit, "%", true},
		{FieldUnit, "mg dL", false},
		{FieldRange, "13.0-17.0", true},
		{FieldRange, "70-100", true},
		{FieldRange, "4.0-11", true},
		{FieldRange, "4-11-12", false},
		{FieldRange, "abc-def", false},
		{FieldRange, "4 - 11", false},
	}

	for _, tt := range tests {
		t.Run(tt.field.String()+"/"+tt.input, func(t *testing.T) {
			got, err := g.MatchField(tt.field, tt.input)
			if err != nil {
				t.Fatalf("MatchField() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchField(%s, %q) = %v, want %v", tt.field, tt.input, got, tt.want)
			}
		})
	}
}

func TestGrammarCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Grammar)
	}{
		{"empty unit", func(g *Grammar) { g.Unit = "" }},
		{"capture group", func(g *Grammar) { g.Value = `(\d+)` }},
		{"invalid pattern", func(g *Grammar) { g.Range = `[0-9` }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGrammar()
			tt.modify(&g)
			if _, err := g.Compile(); err == nil {
				t.Error("expected error")
			}
			if _, err := NewExtractor(g); err == nil {
				t.Error("expected NewExtractor error")
			}
		})
	}
}

func TestFieldString(t *testing.T) {
	if FieldRange.String() != "range" {
		t.Errorf("FieldRange.String() = %q", FieldRange.String())
	}
	if Field(99).String() != "unknown" {
		t.Errorf("Field(99).String() = %q", Field(99).String())
	}
}

// ============================================================================
// Evaluation Tests
// ============================================================================

func TestEvaluateBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		value string
		rng   string
		want  bool
	}{
		{"at low bound", "13.0", "13.0-17.0", false},
		{"at high bound", "17.0", "13.0-17.0", false},
		{"inside", "13.5", "13.0-17.0", false},
		{"just above", "17.01", "13.0-17.0", true},
		{"just below", "12.99", "13.0-17.0", true},
		{"integers", "110", "70-100", true},
		{"mixed precision", "4", "4.0-11", false},
		{"degenerate range", "5", "5-5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.value, tt.rng)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q, %q) = %v, want %v", tt.value, tt.rng, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		rng      string
		inverted bool
	}{
		{"non numeric range", "13.5", "abc-def", false},
		{"two dashes", "13.5", "1-2-3", false},
		{"no dash", "13.5", "13", false},
		{"non numeric value", "high", "13.0-17.0", false},
		{"inverted", "90", "100-70", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.value, tt.rng)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrRecordParse) {
				t.Errorf("expected ErrRecordParse, got %v", err)
			}
			if errors.Is(err, ErrInvertedRange) != tt.inverted {
				t.Errorf("errors.Is(err, ErrInvertedRange) = %v, want %v", !tt.inverted, tt.inverted)
			}
		})
	}
}

func TestRange(t *testing.T) {
	r, err := ParseRange(" 4.0-11.0 ")
	if err != nil {
		t.Fatalf("ParseRange() error = %v", err)
	}
	if r.Low != 4 || r.High != 11 {
		t.Errorf("ParseRange() = %+v", r)
	}
	if r.String() != "4-11" {
		t.Errorf("String() = %q, want %q", r.String(), "4-11")
	}
	if !r.Contains(4) || !r.Contains(11) || r.Contains(11.5) {
		t.Error("Contains() should include both bounds only")
	}
	if r.Outside(4) || !r.Outside(3.9) {
		t.Error("Outside() mismatch at low bound")
	}
}

// ============================================================================
// Extractor Tests
// ============================================================================

func TestExtractTwoRecords(t *testing.T) {
	text := "Hemoglobin 13.5 g/dL 13.0-17.0\nWBC 11.2 10^3/uL 4.0-11.0"

	tests, drops := Extract(text)
	if len(drops) != 0 {
		t.Fatalf("unexpected drops: %v", drops)
	}

	want := []model.LabTest{
		{TestName: "Hemoglobin", TestValue: "13.5", BioReferenceRange: "13.0-17.0", TestUnit: "g/dL", OutOfRange: false},
		{TestName: "WBC", TestValue: "11.2", BioReferenceRange: "4.0-11.0", TestUnit: "10^3/uL", OutOfRange: true},
	}
	if !reflect.DeepEqual(tests, want) {
		t.Errorf("Extract() = %+v, want %+v", tests, want)
	}
}

func TestExtractSeparators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue string
		wantOut   bool
	}{
		{"colon", "Glucose: 110 mg/dL 70-100", "Glucose", "110", true},
		{"dash", "Glucose - 90 mg/dL 70-100", "Glucose", "90", false},
		{"none", "Glucose 90 mg/dL 70-100", "Glucose", "90", false},
		{"parentheses", "Cholesterol (HDL) 45 mg/dL 40-60", "Cholesterol (HDL)", "45", false},
		{"percent unit", "Hematocrit 39 % 40-52", "Hematocrit", "39", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, drops := Extract(tt.input)
			if len(drops) != 0 {
				t.Fatalf("unexpected drops: %v", drops)
			}
			if len(got) != 1 {
				t.Fatalf("Extract() returned %d tests, want 1", len(got))
			}
			if got[0].TestName != tt.wantName {
				t.Errorf("TestName = %q, want %q", got[0].TestName, tt.wantName)
			}
			if got[0].TestValue != tt.wantValue {
				t.Errorf("TestValue = %q, want %q", got[0].TestValue, tt.wantValue)
			}
			if got[0].OutOfRange != tt.wantOut {
				t.Errorf("OutOfRange = %v, want %v", got[0].OutOfRange, tt.wantOut)
			}
		})
	}
}

func TestExtractNonNumericRangeIsSkipped(t *testing.T) {
	tests, drops := Extract("Hemoglobin 13.5 g/dL abc-def")
	if len(tests) != 0 {
		t.Errorf("expected no tests, got %+v", tests)
	}
	if len(drops) != 0 {
		t.Errorf("expected no drops, got %v", drops)
	}
}

func TestExtractPreservesOrder(t *testing.T) {
	text := strings.Join([]string{
		"Sodium 140 mmol/L 135-145",
		"Potassium 5.6 mmol/L 3.5-5.1",
		"Chloride 101 mmol/L 98-107",
	}, "\n")

	tests, _ := Extract(text)
	var names []string
	for _, lt := range tests {
		names = append(names, lt.TestName)
	}
	want := []string{"Sodium", "Potassium", "Chloride"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if !tests[1].OutOfRange {
		t.Error("Potassium should be out of range")
	}
}

func TestExtractSingleLine(t *testing.T) {
	// Spell correction collapses the report onto one line.
	text := "Hemoglobin 13.5 g/dL 13.0-17.0 WBC 11.2 10^3/uL 4.0-11.0"
	tests, _ := Extract(text)
	if len(tests) != 2 {
		t.Fatalf("Extract() returned %d tests, want 2", len(tests))
	}
	if tests[1].TestName != "WBC" {
		t.Errorf("second TestName = %q, want WBC", tests[1].TestName)
	}
}

func TestExtractUnitTakesRangeDigits(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantUnit  string
		wantRange string
		wantOut   bool
	}{
		{"missing unit", "Glucose 90 70-100", "7", "0-100", false},
		{"unit glued to range", "Hemoglobin 13.5 g/dL13.0-17.0", "g/dL1", "3.0-17.0", false},
		{"spaced unit", "Hemoglobin 13.5 g/dL 13.0-17.0", "g/dL", "13.0-17.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, drops := Extract(tt.input)
			if len(got) != 1 || len(drops) != 0 {
				t.Fatalf("Extract() = %+v, drops %v", got, drops)
			}
			if got[0].TestUnit != tt.wantUnit {
				t.Errorf("TestUnit = %q, want %q", got[0].TestUnit, tt.wantUnit)
			}
			if got[0].BioReferenceRange != tt.wantRange {
				t.Errorf("BioReferenceRange = %q, want %q", got[0].BioReferenceRange, tt.wantRange)
			}
			if got[0].OutOfRange != tt.wantOut {
				t.Errorf("OutOfRange = %v, want %v", got[0].OutOfRange, tt.wantOut)
			}
		})
	}
}

func TestExtractDropsInvertedRange(t *testing.T) {
	text := "Glucose 90 mg/dL 100-70\nUrea 30 mg/dL 15-40"

	tests, drops := Extract(text)
	if len(tests) != 1 || tests[0].TestName != "Urea" {
		t.Fatalf("Extract() = %+v, want only Urea", tests)
	}
	if len(drops) != 1 {
		t.Fatalf("got %d drops, want 1", len(drops))
	}
	if !errors.Is(drops[0], ErrInvertedRange) {
		t.Errorf("drop error = %v, want ErrInvertedRange", drops[0])
	}
	if drops[0].Candidate.Name != "Glucose" {
		t.Errorf("drop name = %q", drops[0].Candidate.Name)
	}
	if !strings.Contains(drops[0].Error(), "100-70") {
		t.Errorf("drop message %q should mention the range", drops[0].Error())
	}
}

func TestExtractDropsBlankName(t *testing.T) {
	tests, drops := Extract("  13.5 g/dL 13.0-17.0")
	if len(tests) != 0 {
		t.Errorf("expected no tests, got %+v", tests)
	}
	if len(drops) != 1 || !errors.Is(drops[0], ErrRecordParse) {
		t.Errorf("expected one ErrRecordParse drop, got %v", drops)
	}
}

func TestExtractEmpty(t *testing.T) {
	tests, drops := Extract("")
	if tests != nil || drops != nil {
		t.Errorf("Extract(\"\") = %v, %v", tests, drops)
	}
}

func TestCandidatesOffsets(t *testing.T) {
	text := "Na 140 mmol/L 135-145\nK 4.2 mmol/L 3.5-5.1"
	candidates := DefaultExtractor().Candidates(text)
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Offset != 0 {
		t.Errorf("first offset = %d, want 0", candidates[0].Offset)
	}
	if candidates[1].Offset != strings.Index(text, "\n") {
		t.Errorf("second offset = %d", candidates[1].Offset)
	}
	if candidates[1].Span != "K 4.2 mmol/L 3.5-5.1" {
		t.Errorf("second span = %q", candidates[1].Span)
	}
}

func TestCustomGrammar(t *testing.T) {
	g := DefaultGrammar()
	g.Separator = `[:=]`

	e, err := NewExtractor(g)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	if e.Grammar().Separator != `[:=]` {
		t.Error("Grammar() should return the configured grammar")
	}

	tests, _ := e.Extract("Glucose = 90 mg/dL 70-100")
	if len(tests) != 1 || tests[0].TestName != "Glucose" {
		t.Errorf("Extract() = %+v", tests)
	}
}
