package youtube

import (
	"strings"

	"github.com/gauthierbraillon/ytstreams/internal/jsontree"
)

// Response is one page of a channel's stream listing, from either the
// initial page blob or a continuation call. Everything is derived once at
// construction; a Response is read-only afterwards.
type Response struct {
	streams      []StreamData
	continuation string
	channelTitle string
}

// ParseResponse parses a continuation endpoint body.
func ParseResponse(raw []byte) (*Response, error) {
	n, err := jsontree.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewResponse(n), nil
}

// NewResponse derives items, cursor and channel title from an envelope.
// The three are independent: any may be missing without affecting the others.
func NewResponse(envelope *jsontree.Node) *Response {
	root := contentRoot(envelope)

	var streams []StreamData
	for n := range root.Descendants("videoRenderer") {
		streams = append(streams, NewStreamData(n))
	}

	return &Response{
		streams:      streams,
		continuation: continuationToken(root),
		channelTitle: channelTitle(envelope),
	}
}

// Streams returns the item records in tree order.
func (r *Response) Streams() []StreamData { return r.streams }

// ContinuationToken returns the cursor of the next page, or "" at the end.
func (r *Response) ContinuationToken() string { return r.continuation }

// ChannelTitle returns the channel name from the page header, or "".
func (r *Response) ChannelTitle() string { return r.channelTitle }

// contentRoot picks the subtree to search. Initial pages wrap data in
// "contents"; continuation responses use one of the two action lists.
func contentRoot(envelope *jsontree.Node) *jsontree.Node {
	for _, key := range []string{"contents", "onResponseReceivedActions", "onResponseReceivedCommands"} {
		if n := envelope.Property(key); n != nil {
			return n
		}
	}
	return envelope
}

// continuationToken tries the known cursor locations from most to least
// authoritative.
func continuationToken(root *jsontree.Node) string {
	// Tokens inside the streams grid itself.
	for grid := range root.Descendants("richGridRenderer") {
		for _, item := range grid.Property("contents").Array() {
			if token := rendererToken(item.Property("continuationItemRenderer")); token != "" {
				return token
			}
		}
	}

	// Continuation responses append items through an action.
	for action := range root.Descendants("appendContinuationItemsAction") {
		for _, item := range action.Property("continuationItems").Array() {
			if token := rendererToken(item.Property("continuationItemRenderer")); token != "" {
				return token
			}
			if token := nonBlank(item.Path("nextContinuationData", "continuation")); token != "" {
				return token
			}
		}
	}

	// Older formats only expose nextContinuationData.
	for next := range root.Descendants("nextContinuationData") {
		if token := nonBlank(next.Property("continuation")); token != "" {
			return token
		}
	}

	return ""
}

func rendererToken(renderer *jsontree.Node) string {
	if renderer == nil {
		return ""
	}
	if token := nonBlank(renderer.Path("continuationEndpoint", "continuationCommand", "token")); token != "" {
		return token
	}
	return nonBlank(renderer.Path("continuationCommand", "token"))
}

var headerRendererKeys = []string{"pageHeaderRenderer", "c4TabbedHeaderRenderer", "channelMetadataRenderer"}

func channelTitle(envelope *jsontree.Node) string {
	var header *jsontree.Node
	for _, key := range headerRendererKeys {
		if header = jsontree.First(envelope.Descendants(key)); header != nil {
			break
		}
	}
	if header == nil {
		return ""
	}

	title := header.Property("title")
	for _, candidate := range []string{
		nonBlank(header.Property("pageTitle")),
		nonBlank(title),
		nonBlank(title.Property("simpleText")),
		joinRuns(title),
	} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// nonBlank returns the string value of n, or "" when it is missing or whitespace.
func nonBlank(n *jsontree.Node) string {
	s, ok := n.AsString()
	if !ok || strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// joinRuns concatenates runs[*].text of a rich-text node. It reports ""
// when there are no runs.
func joinRuns(n *jsontree.Node) string {
	runs := n.Property("runs").Array()
	if runs == nil {
		return ""
	}
	var b strings.Builder
	for _, run := range runs {
		if s, ok := run.Property("text").AsString(); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}
