package toolserver

import (
	"github.com/cockroachdb/errors"
)

// ValidateArgs checks required fields and primitive types against the tool's
// declared schema before its handler runs. Unknown fields pass through;
// handlers only read the declared keys.
func ValidateArgs(args map[string]any, schema *Schema) error {
	if schema == nil {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}

	for _, field := range schema.Required {
		if _, exists := args[field]; !exists {
			return errors.Newf("missing required field: %s", field)
		}
	}

	for key, value := range args {
		propDef, ok := schema.Properties[key]
		if !ok {
			continue
		}
		expected := expectedType(propDef)
		if expected == "" {
			continue
		}
		if err := checkType(value, expected); err != nil {
			return errors.WithMessagef(err, "field %s", key)
		}
	}
	return nil
}

func expectedType(definition any) string {
	if def, ok := definition.(map[string]any); ok {
		if value, ok := def["type"].(string); ok {
			return value
		}
	}
	return ""
}

// checkType covers the types the tool schemas declare. A new tool declaring
// anything else fails loudly instead of passing unchecked.
func checkType(value any, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		if isNumber(value) {
			return nil
		}
	default:
		return errors.Newf("unsupported schema type %q", expected)
	}
	return errors.Newf("expected %s but got %T", expected, value)
}

func isNumber(value any) bool {
	// Decoded JSON yields float64; direct in-process callers may pass ints.
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}
