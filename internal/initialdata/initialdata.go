// Package initialdata locates the ytInitialData blob embedded in a YouTube HTML page.
package initialdata

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gauthierbraillon/ytstreams/internal/jsontree"
)

// Marker is the name of the page variable holding the first page of data.
const Marker = "ytInitialData"

// Contains reports whether raw mentions the marker at all. Pages that don't
// can skip HTML parsing entirely.
func Contains(raw string) bool {
	return strings.Contains(raw, Marker)
}

// Extract returns the parsed initial data of an HTML page. The first <script>
// (in document order) whose text yields a non-blank JSON object after the
// marker wins. It returns false when no script qualifies or the blob does
// not parse.
func Extract(raw string) (*jsontree.Node, bool) {
	if !Contains(raw) {
		return nil, false
	}

	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, false
	}
	doc := goquery.NewDocumentFromNode(root)

	var blob string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		blob = fromScript(s.Text())
		return strings.TrimSpace(blob) == ""
	})
	if strings.TrimSpace(blob) == "" {
		return nil, false
	}

	n, err := jsontree.ParseString(blob)
	if err != nil {
		return nil, false
	}
	return n, true
}

func fromScript(script string) string {
	idx := strings.Index(script, Marker)
	if idx < 0 {
		return ""
	}
	start := strings.IndexByte(script[idx:], '{')
	if start < 0 {
		return ""
	}
	return ExtractJSON(script[idx+start:])
}

// ExtractJSON returns the shortest prefix of s that forms a balanced JSON
// object, tracking string literals and their escapes. s must start with '{'.
// It returns "" when s does not start with '{' or never balances.
func ExtractJSON(s string) string {
	if s == "" || s[0] != '{' {
		return ""
	}
	depth := 0
	inStr := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
