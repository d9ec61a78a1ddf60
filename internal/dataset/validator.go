package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// Validator checks that a dataset line is a well-formed training record:
// valid JSON matching the record schema, exactly three turns in
// system/user/assistant order, each with non-empty content.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator derives the record schema from the Record type.
func NewValidator() (*Validator, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	recordSchema := reflector.Reflect(&Record{})
	// gojsonschema only speaks up to draft-07; dropping the $schema keyword
	// lets it fall back to its hybrid mode.
	recordSchema.Version = ""

	data, err := json.Marshal(recordSchema)
	if err != nil {
		return nil, fmt.Errorf("marshaling record schema: %w", err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compiling record schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// ValidateLine checks one JSONL line and returns the first problem found.
func (v *Validator) ValidateLine(line []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("schema violation: %s", result.Errors()[0])
	}

	var record Record
	if err := json.Unmarshal(line, &record); err != nil {
		return fmt.Errorf("not a training record: %w", err)
	}

	return validateRecord(record)
}

func validateRecord(record Record) error {
	expectedRoles := []string{RoleSystem, RoleUser, RoleAssistant}

	if len(record.Messages) != len(expectedRoles) {
		return fmt.Errorf("expected %d messages, found %d", len(expectedRoles), len(record.Messages))
	}

	for i, role := range expectedRoles {
		msg := record.Messages[i]
		if msg.Role != role {
			return fmt.Errorf("message %d: expected role %q, found %q", i, role, msg.Role)
		}
		if msg.Content == "" {
			return fmt.Errorf("message %d (%s): empty content", i, role)
		}
	}

	return nil
}
