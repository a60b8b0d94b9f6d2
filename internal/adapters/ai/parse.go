package ai

import (
	"encoding/json"
	"strings"

	"hermes/pkg/errors"
)

// DecodeJSON strictly decodes a model response into dest. Markdown code
// fences are stripped first since models often wrap JSON in them; anything
// that still fails to decode is returned as a ParseError so the caller can
// fall back to its degraded default instead of acting on garbage.
func DecodeJSON(raw string, dest interface{}) error {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return errors.NewParseError(raw, errors.ErrEmptyResponse)
	}

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		return errors.NewParseError(raw, err)
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` (or bare ```) fence.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && strings.EqualFold(strings.TrimSpace(s[:idx]), "json") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
