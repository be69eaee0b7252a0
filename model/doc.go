// Package model provides the result types produced by the lab report
// extraction pipeline.
//
// These are the user-facing data structures of the module. Every extraction
// path, whether it starts from an image or from already-recognized text,
// ultimately produces a slice of [LabTest] values.
//
// # Lab Tests
//
// A [LabTest] holds one row of a printed laboratory report:
//
//	test := model.LabTest{
//	    TestName:          "Hemoglobin",
//	    TestValue:         "13.5",
//	    TestUnit:          "g/dL",
//	    BioReferenceRange: "13.0-17.0",
//	}
//
// TestValue is kept as the original text so that formatting such as leading
// zeros or trailing decimals survives the round trip to JSON.
//
// # Response Envelope
//
// The [Response] type is the JSON envelope returned to HTTP callers:
//
//	{"is_success": true, "data": [...]}
//
// Use [Success] and [Failure] to build it. A failed request always carries an
// empty (never null) data array.
package model
