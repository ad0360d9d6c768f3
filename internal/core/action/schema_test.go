package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	schema := NewSchema(
		Field("direction", KindString, true).WithEnum("up", "down", "left", "right"),
		Field("distance", KindNumber, false).WithRange(0, 10),
		Field("sneak", KindBool, false),
		Field("meta", KindObject, false),
		Field("waypoints", KindList, false),
	)

	tests := []struct {
		name    string
		payload Payload
		field   string
	}{
		{name: "valid minimal", payload: Payload{"direction": "up"}},
		{name: "valid full", payload: Payload{
			"direction": "left",
			"distance":  5.0,
			"sneak":     true,
			"meta":      map[string]any{"reason": "test"},
			"waypoints": []any{"a"},
		}},
		{name: "unknown fields allowed", payload: Payload{"direction": "up", "extra": 1}},
		{name: "missing required", payload: Payload{}, field: "direction"},
		{name: "enum violation", payload: Payload{"direction": "sideways"}, field: "direction"},
		{name: "wrong kind", payload: Payload{"direction": 7}, field: "direction"},
		{name: "below min", payload: Payload{"direction": "up", "distance": -1.0}, field: "distance"},
		{name: "above max", payload: Payload{"direction": "up", "distance": 11.0}, field: "distance"},
		{name: "bool kind", payload: Payload{"direction": "up", "sneak": "yes"}, field: "sneak"},
		{name: "object kind", payload: Payload{"direction": "up", "meta": 3}, field: "meta"},
		{name: "list kind", payload: Payload{"direction": "up", "waypoints": "a"}, field: "waypoints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate("move", tt.payload)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "move", vErr.Action)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSchema_IntPayloadsCountAsNumbers(t *testing.T) {
	schema := NewSchema(Field("amount", KindNumber, true).WithRange(1, 100))
	assert.NoError(t, schema.Validate("pay", Payload{"amount": 10}))
	assert.NoError(t, schema.Validate("pay", Payload{"amount": int64(10)}))
}
