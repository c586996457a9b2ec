// Package schema builds and validates the minimal JSON-Schema subset used
// for action parameters: object schemas with typed properties, required
// fields, numeric ranges and string length bounds.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Blaqadonis/azaman/core"
)

// FromStruct derives a parameter schema from a struct using reflection.
// Field names come from json tags, descriptions from `description` tags.
// Non-pointer fields without omitempty are required.
func FromStruct(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		if jsonTag != "" {
			if name := strings.Split(jsonTag, ",")[0]; name != "" {
				fieldName = name
			}
		}

		fieldSchema := map[string]any{"type": jsonType(field.Type)}
		if description := field.Tag.Get("description"); description != "" {
			fieldSchema["description"] = description
		}
		properties[fieldName] = fieldSchema

		if !hasOmitEmpty(jsonTag) && field.Type.Kind() != reflect.Ptr {
			required = append(required, fieldName)
		}
	}

	s := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// Validate checks params against an object schema. It enforces required
// fields, property types, numeric minimum/exclusiveMinimum/maximum and
// string maxLength. Unknown fields pass through so models may send extras.
func Validate(params map[string]any, s map[string]any) error {
	for _, fieldName := range requiredFields(s) {
		if _, exists := params[fieldName]; !exists {
			return core.NewValidationError(fieldName, nil, "required field is missing")
		}
	}

	properties, _ := s["properties"].(map[string]any)
	for fieldName, value := range params {
		propSchema, ok := properties[fieldName].(map[string]any)
		if !ok {
			continue
		}
		if err := validateField(fieldName, value, propSchema); err != nil {
			return err
		}
	}
	return nil
}

func validateField(name string, value any, prop map[string]any) error {
	expectedType, _ := prop["type"].(string)
	if expectedType != "" && !matchesType(value, expectedType) {
		return core.NewValidationError(name, value,
			fmt.Sprintf("expected type %s, got %T", expectedType, value))
	}

	if n, ok := asNumber(value); ok {
		if min, ok := asSchemaNumber(prop["minimum"]); ok && n < min {
			return core.NewValidationError(name, value,
				fmt.Sprintf("must be at least %v", min))
		}
		if min, ok := asSchemaNumber(prop["exclusiveMinimum"]); ok && n <= min {
			return core.NewValidationError(name, value,
				fmt.Sprintf("must be greater than %v", min))
		}
		if max, ok := asSchemaNumber(prop["maximum"]); ok && n > max {
			return core.NewValidationError(name, value,
				fmt.Sprintf("must be at most %v", max))
		}
	}

	if str, ok := value.(string); ok {
		if maxLen, ok := asSchemaNumber(prop["maxLength"]); ok && len([]rune(str)) > int(maxLen) {
			return core.NewValidationError(name, value,
				fmt.Sprintf("must be at most %d characters", int(maxLen)))
		}
	}
	return nil
}

// requiredFields tolerates both []string (authored schemas) and []any
// (schemas round-tripped through JSON).
func requiredFields(s map[string]any) []string {
	switch req := s["required"].(type) {
	case []string:
		return req
	case []any:
		fields := make([]string, 0, len(req))
		for _, r := range req {
			if name, ok := r.(string); ok {
				fields = append(fields, name)
			}
		}
		return fields
	default:
		return nil
	}
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return "string"
	}
}

func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}

func matchesType(value any, expectedType string) bool {
	if value == nil {
		return true
	}
	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64: // JSON numbers decode as float64
			return v == float64(int64(v))
		}
		return false
	case "number":
		_, ok := asNumber(value)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

// asNumber converts any Go numeric value to float64.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func asSchemaNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	return asNumber(value)
}
