package model

import (
	"fmt"
	"strings"
)

// LabTest is a single measured result extracted from a lab report.
type LabTest struct {
	TestName          string `json:"test_name"`
	TestValue         string `json:"test_value"`
	BioReferenceRange string `json:"bio_reference_range"`
	TestUnit          string `json:"test_unit"`
	OutOfRange        bool   `json:"lab_test_out_of_range"`
}

// String returns a compact one-line representation of the test.
func (t LabTest) String() string {
	flag := ""
	if t.OutOfRange {
		flag = " [out of range]"
	}
	return fmt.Sprintf("%s: %s %s (%s)%s", t.TestName, t.TestValue, t.TestUnit, t.BioReferenceRange, flag)
}

// Fields returns the record as an ordered list of column values, matching
// the order of Columns.
func (t LabTest) Fields() []string {
	return []string{
		t.TestName,
		t.TestValue,
		t.TestUnit,
		t.BioReferenceRange,
		fmt.Sprintf("%t", t.OutOfRange),
	}
}

// Columns are the JSON field names of a LabTest in tabular export order.
var Columns = []string{
	"test_name",
	"test_value",
	"test_unit",
	"bio_reference_range",
	"lab_test_out_of_range",
}

// OutOfRangeTests returns only the tests flagged as out of range.
func OutOfRangeTests(tests []LabTest) []LabTest {
	var out []LabTest
	for _, t := range tests {
		if t.OutOfRange {
			out = append(out, t)
		}
	}
	return out
}

// FindTest returns the first test whose name matches name, ignoring case
// and surrounding whitespace.
func FindTest(tests []LabTest, name string) (LabTest, bool) {
	name = strings.TrimSpace(name)
	for _, t := range tests {
		if strings.EqualFold(t.TestName, name) {
			return t, true
		}
	}
	return LabTest{}, false
}
