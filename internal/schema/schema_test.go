package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blaqadonis/azaman/core"
)

type sampleArgs struct {
	Name   string   `json:"name" description:"Display name"`
	Amount float64  `json:"amount" description:"Positive amount"`
	Note   *string  `json:"note" description:"Optional note"`
	Hint   string  `json:"hint,omitempty"`
}

func TestFromStruct(t *testing.T) {
	s := FromStruct(sampleArgs{})

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "amount")
	assert.Contains(t, props, "note")
	assert.Contains(t, props, "hint")

	nameSchema := props["name"].(map[string]any)
	assert.Equal(t, "string", nameSchema["type"])
	assert.Equal(t, "Display name", nameSchema["description"])
	assert.Equal(t, "number", props["amount"].(map[string]any)["type"])

	// Pointer and omitempty fields are optional.
	req, _ := s["required"].([]string)
	assert.ElementsMatch(t, []string{"name", "amount"}, req)
}

func TestValidateRequiredAndTypes(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount": map[string]any{"type": "number"},
			"name":   map[string]any{"type": "string"},
		},
		"required": []any{"amount"},
	}

	assert.NoError(t, Validate(map[string]any{"amount": 5.0}, s))

	err := Validate(map[string]any{}, s)
	require.Error(t, err)
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)

	err = Validate(map[string]any{"amount": "five"}, s)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)

	// Extra fields are allowed.
	assert.NoError(t, Validate(map[string]any{"amount": 1.0, "extra": true}, s))
}

func TestValidateNumericRanges(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount": map[string]any{"type": "number", "exclusiveMinimum": 0},
			"rate":   map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		},
	}

	assert.NoError(t, Validate(map[string]any{"amount": 0.01, "rate": 100.0}, s))

	var vErr *core.ValidationError
	require.ErrorAs(t, Validate(map[string]any{"amount": 0.0}, s), &vErr)
	require.ErrorAs(t, Validate(map[string]any{"rate": -1.0}, s), &vErr)
	require.ErrorAs(t, Validate(map[string]any{"rate": 100.5}, s), &vErr)
}

func TestValidateStringLength(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "maxLength": 5},
		},
	}

	assert.NoError(t, Validate(map[string]any{"name": "Ada"}, s))

	var vErr *core.ValidationError
	require.ErrorAs(t, Validate(map[string]any{"name": "Adaeze Okafor"}, s), &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestValidateIntegerAcceptsWholeFloats(t *testing.T) {
	s := map[string]any{
		"type":       "object",
		"properties": map[string]any{"count": map[string]any{"type": "integer"}},
	}
	assert.NoError(t, Validate(map[string]any{"count": 3.0}, s))
	assert.Error(t, Validate(map[string]any{"count": 3.5}, s))
}
