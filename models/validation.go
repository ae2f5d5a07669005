package models

import "fmt"

// ValidationIssue is a user-correctable validation outcome. It is a normal
// return value, never a Go error: a nil issue means the checked state is
// ready, a non-nil issue carries the message shown verbatim in the UI.
type ValidationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func NewIssue(field, format string, args ...interface{}) *ValidationIssue {
	return &ValidationIssue{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (v *ValidationIssue) String() string {
	if v == nil {
		return ""
	}
	return v.Message
}
