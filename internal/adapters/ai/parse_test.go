package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func TestDecodeJSON_PlainObject(t *testing.T) {
	var out struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}

	err := DecodeJSON(`{"intent": "portfolio", "confidence": 0.95}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "portfolio", out.Intent)
	assert.Equal(t, 0.95, out.Confidence)
}

func TestDecodeJSON_FencedPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"intent\": \"market\"}\n```"},
		{"bare fence", "```\n{\"intent\": \"market\"}\n```"},
		{"padded", "  ```json\n{\"intent\": \"market\"}\n```  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]interface{}
			err := DecodeJSON(tt.raw, &out)
			require.NoError(t, err)
			assert.Equal(t, "market", out["intent"])
		})
	}
}

func TestDecodeJSON_GarbledPayload(t *testing.T) {
	var out map[string]interface{}

	err := DecodeJSON(`intent is probably portfolio`, &out)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err), "garbled payload must yield a ParseError")
}

func TestDecodeJSON_EmptyPayload(t *testing.T) {
	var out map[string]interface{}

	err := DecodeJSON("", &out)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.True(t, errors.Is(err, errors.ErrEmptyResponse))
}
