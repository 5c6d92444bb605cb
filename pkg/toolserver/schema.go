package toolserver

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	invopop "github.com/invopop/jsonschema"
)

// Schema is the subset of JSON Schema used to validate tool arguments
// before a handler runs. The advertised form is the SDK's schema type,
// built from the same reflected document.
type Schema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// reflectSchema derives the input schema for a tool from its typed argument
// struct, returning both the advertised form and the validation form.
func reflectSchema[T any]() (*jsonschema.Schema, *Schema) {
	reflector := invopop.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	raw, err := json.Marshal(reflector.Reflect(&v))
	if err != nil {
		panic(err) // schemas come from our own static structs
	}

	advertised := new(jsonschema.Schema)
	var validation Schema
	if err := json.Unmarshal(raw, advertised); err != nil {
		panic(err)
	}
	if err := json.Unmarshal(raw, &validation); err != nil {
		panic(err)
	}
	return advertised, &validation
}
