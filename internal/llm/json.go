package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonBlockRe = regexp.MustCompile("(?s)```json\\s*\\n?(.*?)\\n?\\s*```")

// ExtractJSONBlock pulls the first ```json fenced block out of model
// output. When the model skips the fence but replies with bare JSON,
// that is accepted too. Returns false if no valid JSON is found.
func ExtractJSONBlock(text string) ([]byte, bool) {
	if m := jsonBlockRe.FindStringSubmatch(text); m != nil {
		raw := []byte(strings.TrimSpace(m[1]))
		if json.Valid(raw) {
			return raw, true
		}
		return nil, false
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return []byte(trimmed), true
	}
	return nil, false
}
