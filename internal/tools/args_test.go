package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{
		"text":     "  A-100 ",
		"whole":    float64(20231234),
		"fraction": 12.5,
		"number":   json.Number("0042"),
		"flag":     true,
		"null":     nil,
	}

	tests := []struct {
		key  string
		want string
	}{
		{"text", "A-100"},
		{"whole", "20231234"},
		{"fraction", "12.5"},
		{"number", "0042"},
		{"flag", "true"},
		{"null", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, stringArg(args, tt.key))
		})
	}
}
