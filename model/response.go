package model

// Response is the envelope returned to callers of the extraction endpoint.
type Response struct {
	IsSuccess bool      `json:"is_success"`
	Data      []LabTest `json:"data"`
}

// Success wraps tests in a successful response. A nil slice is replaced with
// an empty one so the envelope always encodes data as an array.
func Success(tests []LabTest) Response {
	if tests == nil {
		tests = []LabTest{}
	}
	return Response{IsSuccess: true, Data: tests}
}

// Failure returns the uniform failure envelope: {"is_success":false,"data":[]}.
func Failure() Response {
	return Response{IsSuccess: false, Data: []LabTest{}}
}
