// Package rendering turns a document input record into an in-memory resume
// document using one of a closed set of templates.
package rendering

import "fmt"

// UnknownTemplateError is returned when a template identifier does not name a template.
type UnknownTemplateError struct {
	ID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.ID)
}

// InputError represents a document input record that could not be decoded or
// failed schema validation.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Template TemplateID
	Message  string
	Cause    error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error (%s): %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error (%s): %s", e.Template, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
