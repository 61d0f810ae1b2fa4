package director

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ivlev/reelprep/internal/state"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// ParseResponse extracts the scenario JSON from a model reply, tolerating
// markdown fences and chatter around the object.
func ParseResponse(raw string) (*state.Scenario, error) {
	raw = strings.TrimSpace(raw)

	rawJSON := raw
	if m := jsonBlockRegex.FindStringSubmatch(raw); len(m) > 1 {
		rawJSON = m[1]
	} else if first, last := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); first != -1 && last > first {
		rawJSON = raw[first : last+1]
	}

	var scenario state.Scenario
	if err := json.Unmarshal([]byte(rawJSON), &scenario); err != nil {
		return nil, fmt.Errorf("parse model response (excerpt: %q): %w", Excerpt(raw, 200), err)
	}
	return &scenario, nil
}
