package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// ErrMalformed is returned when generator output is not a JSON array of
// insight objects.
var ErrMalformed = errors.New("malformed insights response")

// Order is the fixed order in which entries are presented.
var Order = []core.InsightType{core.InsightSpending, core.InsightSaving, core.InsightUpcoming}

// Fallback returns the placeholder shown when no entry of type t is available.
func Fallback(t core.InsightType) core.Insight {
	switch t {
	case core.InsightSpending:
		return core.Insight{Type: t, Title: "Spending Pattern", Message: "Unable to analyze spending patterns at this time."}
	case core.InsightSaving:
		return core.Insight{Type: t, Title: "Saving Opportunity", Message: "Unable to identify saving opportunities at this time."}
	default:
		return core.Insight{Type: core.InsightUpcoming, Title: "Financial Tip", Message: "Unable to provide financial tips at this time."}
	}
}

// Fallbacks returns the full placeholder set.
func Fallbacks() []core.Insight {
	out := make([]core.Insight, len(Order))
	for i, t := range Order {
		out[i] = Fallback(t)
	}
	return out
}

// Normalize returns exactly one entry per type in Order. The first entry
// of each type wins; missing types get their fallback, blank titles and
// messages get generic text, unknown types are dropped.
func Normalize(entries []core.Insight) []core.Insight {
	out := make([]core.Insight, 0, len(Order))
	for _, t := range Order {
		found := Fallback(t)
		for _, e := range entries {
			if e.Type != t {
				continue
			}
			found = e
			if strings.TrimSpace(found.Title) == "" {
				found.Title = "Insight"
			}
			if strings.TrimSpace(found.Message) == "" {
				found.Message = "No insight available"
			}
			break
		}
		out = append(out, found)
	}
	return out
}

// ParseResponse decodes a generator reply. Markdown code fences around the
// JSON are tolerated.
func ParseResponse(text string) ([]core.Insight, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	var entries []core.Insight
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return entries, nil
}
