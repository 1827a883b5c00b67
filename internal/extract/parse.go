package extract

import (
	"fmt"
	"strings"
)

// noItemsSentinel is what the prompt instructs the model to emit when the
// meeting assigned no tasks. It maps to an empty (successful) item list.
const noItemsSentinel = "NONE"

// parseActionItems applies the strict line grammar: one item per line,
// `description | owner | due`, "-" for absent fields, NONE for an empty
// meeting. Any deviation is an error so the caller can retry or fail —
// partially-parsed output is never returned.
func parseActionItems(raw string) ([]ActionItem, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}
	if strings.EqualFold(strings.TrimRight(trimmed, "."), noItemsSentinel) {
		return []ActionItem{}, nil
	}

	var items []ActionItem
	for _, line := range strings.Split(trimmed, "\n") {
		line = stripListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) > 3 {
			return nil, fmt.Errorf("line %q: %d fields, want at most 3", line, len(fields))
		}

		item := ActionItem{Description: cleanField(fields[0])}
		if item.Description == "" {
			return nil, fmt.Errorf("line %q: empty description", line)
		}
		if len(fields) > 1 {
			item.Owner = cleanField(fields[1])
		}
		if len(fields) > 2 {
			item.Due = cleanField(fields[2])
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no parseable lines in response")
	}
	return items, nil
}

// cleanField trims a delimited field and maps the "-" placeholder to empty.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}

// stripListMarker removes a leading "1." / "1)" numbering or a bullet that
// models sometimes add despite instructions. The grammar itself stays strict;
// this only tolerates decoration around otherwise valid lines.
func stripListMarker(line string) string {
	s := line
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	} else if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		s = s[2:]
	}
	return strings.TrimSpace(s)
}
