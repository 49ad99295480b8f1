package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSONBlock strips markdown fences, conversational preambles and trailing
// chatter from a model response, returning the first complete JSON object or
// array. Text with no recognizable JSON is returned trimmed.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	// A preamble such as "[Note] scores below:" can open a bracket that is not JSON.
	for offset := 0; offset < len(text); {
		i := strings.IndexAny(text[offset:], "{[")
		if i < 0 {
			break
		}
		start := offset + i
		if block := balancedBlock(text[start:]); block != "" && json.Valid([]byte(block)) {
			return block
		}
		offset = start + 1
	}
	return text
}

// DecodeJSON cleans text with CleanJSONBlock and unmarshals it into v.
func DecodeJSON(text string, v any) error {
	cleaned := CleanJSONBlock(text)
	if cleaned == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("failed to parse JSON from model output: %w", err)
	}
	return nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Language tag on the opening fence line, e.g. "json".
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		if tag := text[:idx]; len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// balancedBlock returns the prefix of text that closes the bracket opened at
// text[0], ignoring brackets inside JSON strings. It returns "" when text does
// not start with { or [ or never closes.
func balancedBlock(text string) string {
	if text == "" || (text[0] != '{' && text[0] != '[') {
		return ""
	}

	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return ""
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
