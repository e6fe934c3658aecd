package youtube

import (
	"strconv"
	"strings"
	"time"

	"github.com/gauthierbraillon/ytstreams/internal/jsontree"
)

// StreamData is the item record read from one videoRenderer node. Every
// field is optional; the pager decides which absences are fatal.
type StreamData struct {
	ID         string
	Title      *string
	Author     string
	ChannelID  string
	Duration   *time.Duration
	Thumbnails []ThumbnailData
	IsLive     bool
	IsUpcoming bool
}

// ThumbnailData is a thumbnail as found upstream, before validation.
type ThumbnailData struct {
	URL    *string
	Width  *int
	Height *int
}

// NewStreamData reads an item record from a videoRenderer node.
func NewStreamData(n *jsontree.Node) StreamData {
	byline := authorRun(n)
	style := timeStatusStyle(n)

	d := StreamData{
		ID:         n.Property("videoId").StringOrEmpty(),
		Title:      itemTitle(n),
		Author:     byline.Property("text").StringOrEmpty(),
		ChannelID:  itemChannelID(n, byline),
		Duration:   itemDuration(n),
		Thumbnails: itemThumbnails(n),
	}
	d.IsLive = strings.EqualFold(style, "LIVE") ||
		strings.EqualFold(style, "LIVE_NOW") ||
		hasLiveBadge(n)
	d.IsUpcoming = strings.EqualFold(style, "UPCOMING") ||
		n.Property("upcomingEventData") != nil
	return d
}

// Status classifies the item. Live wins over upcoming.
func (d StreamData) Status() StreamStatus {
	switch {
	case d.IsLive:
		return StatusLive
	case d.IsUpcoming:
		return StatusUpcoming
	default:
		return StatusPast
	}
}

func itemTitle(n *jsontree.Node) *string {
	title := n.Property("title")
	if s, ok := title.Property("simpleText").AsString(); ok {
		return &s
	}
	if title.Property("runs").Array() != nil {
		s := joinRuns(title)
		return &s
	}
	return nil
}

// authorRun returns the first byline run, preferring the long byline.
func authorRun(n *jsontree.Node) *jsontree.Node {
	if run := n.Path("longBylineText", "runs").Index(0); run != nil {
		return run
	}
	return n.Path("shortBylineText", "runs").Index(0)
}

func itemChannelID(n, byline *jsontree.Node) string {
	if id, ok := byline.Path("navigationEndpoint", "browseEndpoint", "browseId").AsString(); ok {
		return id
	}
	return n.Path(
		"channelThumbnailSupportedRenderers",
		"channelThumbnailWithLinkRenderer",
		"navigationEndpoint",
		"browseEndpoint",
		"browseId",
	).StringOrEmpty()
}

func itemDuration(n *jsontree.Node) *time.Duration {
	length := n.Property("lengthText")
	if s, ok := length.Property("simpleText").AsString(); ok {
		if d, ok := ParseDuration(s); ok {
			return &d
		}
	}
	if length.Property("runs").Array() != nil {
		if d, ok := ParseDuration(joinRuns(length)); ok {
			return &d
		}
	}
	return nil
}

// ParseDuration parses m:ss, mm:ss, h:mm:ss or hh:mm:ss. Minutes and
// seconds must be two digits below 60 except for the leading field of m:ss.
func ParseDuration(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")

	var h, m, sec int
	var ok bool
	switch len(parts) {
	case 2:
		if m, ok = field(parts[0], 1, 2, 59); !ok {
			return 0, false
		}
		if sec, ok = field(parts[1], 2, 2, 59); !ok {
			return 0, false
		}
	case 3:
		if h, ok = field(parts[0], 1, 2, 23); !ok {
			return 0, false
		}
		if m, ok = field(parts[1], 2, 2, 59); !ok {
			return 0, false
		}
		if sec, ok = field(parts[2], 2, 2, 59); !ok {
			return 0, false
		}
	default:
		return 0, false
	}

	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, true
}

// field parses a run of minDigits..maxDigits ASCII digits no larger than max.
func field(s string, minDigits, maxDigits, max int) (int, bool) {
	if len(s) < minDigits || len(s) > maxDigits {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > max {
		return 0, false
	}
	return v, true
}

func itemThumbnails(n *jsontree.Node) []ThumbnailData {
	items := n.Path("thumbnail", "thumbnails").Array()
	thumbs := make([]ThumbnailData, 0, len(items))
	for _, t := range items {
		var td ThumbnailData
		if s, ok := t.Property("url").AsString(); ok {
			td.URL = &s
		}
		if w, ok := t.Property("width").AsInt(); ok {
			td.Width = &w
		}
		if h, ok := t.Property("height").AsInt(); ok {
			td.Height = &h
		}
		thumbs = append(thumbs, td)
	}
	return thumbs
}

// timeStatusStyle returns the first time-status overlay style, or "".
func timeStatusStyle(n *jsontree.Node) string {
	for _, overlay := range n.Property("thumbnailOverlays").Array() {
		if s, ok := overlay.Path("thumbnailOverlayTimeStatusRenderer", "style").AsString(); ok {
			return s
		}
	}
	return ""
}

func hasLiveBadge(n *jsontree.Node) bool {
	for _, badge := range n.Property("badges").Array() {
		renderer := badge.Property("metadataBadgeRenderer")
		if renderer == nil {
			continue
		}
		style := renderer.Property("style").StringOrEmpty()
		if strings.EqualFold(style, "LIVE_NOW") || strings.EqualFold(style, "LIVE") {
			return true
		}
	}
	return false
}
