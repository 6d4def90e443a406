package textgen

import (
	"fmt"
	"regexp"
	"strings"

	"weddingbudget/internal/allocation"
)

// MaxLines caps how many advice lines are kept from a model answer.
const MaxLines = 8

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]|\(\d+\))\s*`)

// BuildPrompt describes a calculated budget and asks for short advice lines.
func BuildPrompt(in allocation.Input, result *allocation.Result) string {
	var b strings.Builder

	b.WriteString("You are an experienced wedding planner. Give practical, friendly budgeting advice.\n")
	b.WriteString("Reply with 3 to 6 short recommendations, one per line, without introduction or closing remarks.\n\n")

	fmt.Fprintf(&b, "Total budget: %d\n", in.TotalBudget)
	fmt.Fprintf(&b, "Guests: %d\n", in.GuestCount)
	if result.PerGuestAmount != nil {
		fmt.Fprintf(&b, "Budget per guest: %.2f (%s efficiency)\n", *result.PerGuestAmount, result.Efficiency)
	}
	fmt.Fprintf(&b, "Venue type: %s\n", in.VenueType)
	fmt.Fprintf(&b, "Style: %s\n", in.Style)
	fmt.Fprintf(&b, "Season: %s\n", in.Season)

	b.WriteString("\nPlanned allocation:\n")
	for _, c := range result.Categories {
		fmt.Fprintf(&b, "- %s: %d (%d%%)\n", c.Name, c.Amount, c.Percentage)
	}
	return b.String()
}

// ParseLines splits model output into advice lines, stripping list markers
// and blank lines. It returns ErrEmptyResponse when nothing remains.
func ParseLines(text string) ([]string, error) {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(listMarker.ReplaceAllString(raw, ""))
		line = strings.Trim(line, "*_ ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == MaxLines {
			break
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyResponse
	}
	return lines, nil
}
