// Package schemas holds the JSON Schemas for the records exchanged by resumind.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	DocumentInput = "document_input.schema.json"
	Profile       = "profile.schema.json"
	ErrorRecord   = "error_record.schema.json"
)
