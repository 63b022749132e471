package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credentials are the source-site login used by the authenticated extractor.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ExtractRequest asks for a profile to be extracted from raw page markup.
type ExtractRequest struct {
	HTML string `json:"html" validate:"required"`
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
}

// RenderRequest asks for a document input record to be rendered.
// Data is kept raw so it can be schema-validated before decoding.
type RenderRequest struct {
	Template string          `json:"template" validate:"required"`
	Format   string          `json:"format,omitempty" validate:"omitempty,oneof=docx pdf chrome-pdf markdown html text json latex"`
	Data     json.RawMessage `json:"data"`
}

// ScoreRequest asks for a resume to be scored against a job description.
type ScoreRequest struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
}

// ImportRequest asks for a profile URL to be fetched, extracted and adapted.
type ImportRequest struct {
	URL           string `json:"url" validate:"required,url"`
	Authenticated bool   `json:"authenticated,omitempty"`
	Template      string `json:"template,omitempty"`
}

// Validate validates the Credentials using the validator.
func (c *Credentials) Validate() error {
	return validate.Struct(c)
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RenderRequest using the validator.
func (r *RenderRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ScoreRequest using the validator.
func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ImportRequest using the validator.
func (r *ImportRequest) Validate() error {
	return validate.Struct(r)
}
