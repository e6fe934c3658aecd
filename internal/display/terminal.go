// Package display provides terminal and JSON output for ytstreams.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/ytstreams/internal/youtube"
)

const (
	separator     = " • "
	maxTitleWidth = 80
)

// TerminalFormatter formats streams for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatStream formats a single stream for display.
func (f *TerminalFormatter) FormatStream(s youtube.Stream) string {
	var lines []string

	// Header: [STATUS] Title
	title := s.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(s.Status.String()), f.TruncateText(title, maxTitleWidth)))

	meta := "  by " + s.Author.ChannelTitle
	if s.Duration != nil {
		meta += separator + f.FormatDuration(*s.Duration)
	}
	lines = append(lines, meta)

	lines = append(lines, "  "+s.URL())

	return strings.Join(lines, "\n") + "\n"
}

// FormatStreams formats multiple streams for display.
func (f *TerminalFormatter) FormatStreams(streams []youtube.Stream) string {
	if len(streams) == 0 {
		return "No streams to display.\n"
	}

	var formatted []string
	for _, s := range streams {
		formatted = append(formatted, f.FormatStream(s))
	}

	return strings.Join(formatted, "\n---\n\n")
}

// FormatDuration formats a duration the way YouTube shows it: m:ss or h:mm:ss.
func (f *TerminalFormatter) FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
