package tutor

import (
	"context"
	"strings"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

const (
	maxKeyPoints = 5
	maxExamples  = 3
)

var depths = map[string]bool{"basic": true, "intermediate": true, "advanced": true}

// ExplainTopic explains topic at depth (basic, intermediate or advanced; empty means intermediate).
func (t *Tutor) ExplainTopic(ctx context.Context, topic, depth string) (*Explanation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidArgument("topic is required")
	}
	depth = strings.ToLower(strings.TrimSpace(depth))
	if depth == "" {
		depth = "intermediate"
	}
	if !depths[depth] {
		return nil, invalidArgument("unsupported depth %q", depth)
	}

	return cached(ctx, t, cache.GenerateKey("explain", topic, depth), func() (*Explanation, error) {
		reply, err := t.complete(ctx, "explanation",
			[]ai.Message{ai.UserMessage(explainPrompt(topic, depth))}, explainMaxTokens)
		if err != nil {
			return nil, err
		}
		result := parseExplanation(reply)
		result.Topic = topic
		result.Depth = depth
		result.Timestamp = t.timestamp()
		return result, nil
	})
}

func parseExplanation(reply string) *Explanation {
	var parsed struct {
		Explanation string   `json:"explanation"`
		KeyPoints   []string `json:"key_points"`
		Examples    []string `json:"examples"`
	}
	if err := ai.DecodeJSON(reply, &parsed); err == nil && strings.TrimSpace(parsed.Explanation) != "" {
		return &Explanation{
			Explanation: strings.TrimSpace(parsed.Explanation),
			KeyPoints:   limit(nonEmpty(parsed.KeyPoints), maxKeyPoints),
			Examples:    limit(nonEmpty(parsed.Examples), maxExamples),
		}
	}
	return parseExplanationSections(reply)
}

// parseExplanationSections reads the EXPLANATION: / KEY POINTS: / EXAMPLES: layout.
// Without an EXPLANATION: header the whole reply becomes the explanation.
func parseExplanationSections(reply string) *Explanation {
	var (
		section     string
		explanation []string
		keyPoints   []string
		examples    []string
	)
	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		header, rest, isHeader := sectionHeader(trimmed)
		if isHeader {
			section = header
			trimmed = rest
			if trimmed == "" {
				continue
			}
		}

		switch section {
		case "explanation":
			if isHeader {
				line = trimmed
			}
			explanation = append(explanation, line)
		case "key_points":
			if item := bulletText(trimmed); item != "" {
				keyPoints = append(keyPoints, item)
			}
		case "examples":
			if item := bulletText(trimmed); item != "" {
				examples = append(examples, item)
			}
		}
	}

	text := strings.TrimSpace(strings.Join(explanation, "\n"))
	if text == "" {
		text = strings.TrimSpace(reply)
	}
	return &Explanation{
		Explanation: text,
		KeyPoints:   limit(keyPoints, maxKeyPoints),
		Examples:    limit(examples, maxExamples),
	}
}

func sectionHeader(line string) (section, rest string, ok bool) {
	line = strings.TrimLeft(line, "#* ")
	for prefix, name := range map[string]string{
		"EXPLANATION:": "explanation",
		"KEY POINTS:":  "key_points",
		"EXAMPLES:":    "examples",
	} {
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return name, strings.TrimSpace(strings.Trim(line[len(prefix):], "* ")), true
		}
	}
	return "", "", false
}

// bulletText strips "- ", "* ", "• " and "1. " markers.
func bulletText(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•")
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 && isDigits(line[:i]) {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func limit[T any](items []T, n int) []T {
	if items == nil {
		return []T{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
