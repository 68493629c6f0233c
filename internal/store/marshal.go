package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/mbqc/internal/lower"
)

// marshalWarnings converts audit warnings to JSON TEXT.
// HTML escaping is disabled so messages are stored verbatim.
func marshalWarnings(ws []lower.Warning) (string, error) {
	if ws == nil {
		ws = []lower.Warning{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ws); err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalWarnings parses JSON TEXT to warnings. Never returns nil.
func unmarshalWarnings(data string) ([]lower.Warning, error) {
	ws := []lower.Warning{}
	if data == "" || data == "[]" {
		return ws, nil
	}
	if err := json.Unmarshal([]byte(data), &ws); err != nil {
		return nil, fmt.Errorf("unmarshal warnings: %w", err)
	}
	return ws, nil
}
