package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	MissionID string `validate:"required,uuid"`
	Level     int    `validate:"min=1,max=100"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name   string
		input  testRequest
		fields map[string]string
	}{
		{"valid", testRequest{MissionID: "0b7d3f1e-5c2a-4e0f-9a41-1f6c2d8e9a01", Level: 3}, nil},
		{"boundary low", testRequest{MissionID: "0b7d3f1e-5c2a-4e0f-9a41-1f6c2d8e9a01", Level: 1}, nil},
		{"missing id", testRequest{Level: 3}, map[string]string{"mission_id": "This field is required"}},
		{"bad uuid", testRequest{MissionID: "nope", Level: 3}, map[string]string{"mission_id": "Must be a valid UUID"}},
		{"level too low", testRequest{MissionID: "0b7d3f1e-5c2a-4e0f-9a41-1f6c2d8e9a01"}, map[string]string{"level": "Must be at least 1"}},
		{"level too high", testRequest{MissionID: "0b7d3f1e-5c2a-4e0f-9a41-1f6c2d8e9a01", Level: 101}, map[string]string{"level": "Must be at most 100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.input)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.fields, FormatValidationError(err))
		})
	}
}

func TestFormatValidationError_NonValidatorError(t *testing.T) {
	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("x")))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "mission_id", toSnake("MissionID"))
	assert.Equal(t, "level", toSnake("Level"))
	assert.Equal(t, "user_level", toSnake("UserLevel"))
	assert.Equal(t, "id", toSnake("ID"))
}
