// Package export renders meeting notes — transcript, summary, action items —
// as a markdown document.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/snarg/minutes-engine/internal/extract"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// Notes bundles everything that goes into an exported document. Summary and
// Items are optional; the transcript is not.
type Notes struct {
	Title     string
	Summary   string
	Items     []extract.ActionItem
	Generated time.Time
}

// RenderMarkdown renders the transcript and any derived notes as markdown.
func RenderMarkdown(t *transcript.Transcript, notes Notes) string {
	var b strings.Builder

	title := notes.Title
	if title == "" {
		title = "Meeting Notes"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if lang := t.Language(); lang != "" {
		fmt.Fprintf(&b, "- Language: %s\n", lang)
	}
	fmt.Fprintf(&b, "- Duration: %s\n", msToTimestamp(t.DurationMS()))
	if !notes.Generated.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", notes.Generated.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	if notes.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(notes.Summary)
		b.WriteString("\n\n")
	}

	if notes.Items != nil {
		b.WriteString("## Action Items\n\n")
		if len(notes.Items) == 0 {
			b.WriteString("No action items were assigned.\n\n")
		} else {
			b.WriteString("| # | Description | Owner | Due |\n")
			b.WriteString("|---|-------------|-------|-----|\n")
			for i, item := range notes.Items {
				fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
					i+1, item.Description, orDash(item.Owner), orDash(item.Due))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Transcript\n\n")
	for i := 0; i < t.Len(); i++ {
		u, _ := t.UtteranceAt(i)
		fmt.Fprintf(&b, "**[%s] %s:** %s\n\n", msToTimestamp(u.StartMS), u.Speaker, u.Text)
	}

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func msToTimestamp(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
