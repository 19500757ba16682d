package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("```(?:json|JSON)?\\s*([\\s\\S]*?)\\s*```")

// ErrNoJSON is returned when a reply holds no JSON object or array.
var ErrNoJSON = errors.New("no JSON found in response")

// ExtractJSON pulls the JSON payload out of an LLM reply. It accepts bare JSON,
// ```json fenced blocks, and JSON surrounded by prose.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if json.Valid([]byte(text)) && (strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[")) {
		return text, nil
	}

	pairs := [][2]byte{{'{', '}'}, {'[', ']'}}
	if arr, obj := strings.IndexByte(text, '['), strings.IndexByte(text, '{'); arr >= 0 && (obj < 0 || arr < obj) {
		pairs[0], pairs[1] = pairs[1], pairs[0]
	}
	for _, pair := range pairs {
		start := strings.IndexByte(text, pair[0])
		end := strings.LastIndexByte(text, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", ErrNoJSON
}

// DecodeJSON extracts the JSON payload from text and unmarshals it into v.
func DecodeJSON(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}
