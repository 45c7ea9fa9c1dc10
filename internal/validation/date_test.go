package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-03-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024-3-1", false},
		{"24-03-01", false},
		{"2024/03/01", false},
		{"2024-03-01T00:00:00Z", false},
		{"", false},
		{"abcd-ef-gh", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDate(tt.input))
		})
	}
}

type dated struct {
	Date string `binding:"omitempty,isodate"`
}

func TestRegisterBindings(t *testing.T) {
	require.NoError(t, RegisterBindings())
	require.NoError(t, RegisterBindings())

	assert.NoError(t, binding.Validator.ValidateStruct(dated{Date: "2024-03-01"}))
	assert.NoError(t, binding.Validator.ValidateStruct(dated{}))
	assert.Error(t, binding.Validator.ValidateStruct(dated{Date: "2024-02-30"}))
}
