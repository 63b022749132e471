package rendering

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/jonathan/resumind/internal/schemas"
	"github.com/jonathan/resumind/internal/types"
	embedded "github.com/jonathan/resumind/schemas"
	"gopkg.in/yaml.v3"
)

// DecodeInput decodes and validates a JSON document input record.
func DecodeInput(data []byte) (*types.DocumentInput, error) {
	if err := schemas.Validate(embedded.DocumentInput, data); err != nil {
		return nil, &InputError{Message: "document input does not match schema", Cause: err}
	}
	var in types.DocumentInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, &InputError{Message: "failed to decode document input", Cause: err}
	}
	in.Normalize()
	return &in, nil
}

// DecodeInputYAML decodes a YAML document input record and validates it
// against the same schema as JSON input.
func DecodeInputYAML(data []byte) (*types.DocumentInput, error) {
	var in types.DocumentInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, &InputError{Message: "failed to decode YAML document input", Cause: err}
	}
	asJSON, err := json.Marshal(&in)
	if err != nil {
		return nil, &InputError{Message: "failed to re-encode document input", Cause: err}
	}
	return DecodeInput(asJSON)
}

// DecodeInputFile picks the decoder from the file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func DecodeInputFile(path string, data []byte) (*types.DocumentInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeInputYAML(data)
	default:
		return DecodeInput(data)
	}
}
