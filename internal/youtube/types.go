// Package youtube lists the streams of a YouTube channel.
//
// The first page comes from the ytInitialData blob of the channel's /streams
// page; later pages come from the youtubei browse endpoint, driven by an opaque
// continuation token. Neither surface has a stable schema, so extraction goes
// through schema-agnostic tree queries with ordered fallbacks.
//
// This package enables ytstreams to:
// - Enumerate a channel's live, upcoming and past streams lazily
// - Deduplicate items and stop on empty, exhausted or repeating pages
// - Classify each stream from badge and overlay signals
package youtube

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ChannelID identifies a channel, e.g. UCSMOQeBJ2RAnuFungnQOxLg.
type ChannelID string

var (
	channelIDRE    = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	channelURLRE   = regexp.MustCompile(`youtube\..+?/channel/([^?&/#]+)`)
	videoIDRE      = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoIDInURLRE = regexp.MustCompile(`(?:youtube\..+?/(?:watch\?(?:.*&)?v=|embed/|shorts/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
)

// ParseChannelID accepts a bare channel id or a /channel/ URL.
func ParseChannelID(s string) (ChannelID, error) {
	s = strings.TrimSpace(s)
	if channelIDRE.MatchString(s) {
		return ChannelID(s), nil
	}
	if m := channelURLRE.FindStringSubmatch(s); m != nil && channelIDRE.MatchString(m[1]) {
		return ChannelID(m[1]), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChannelID, s)
}

func (id ChannelID) String() string { return string(id) }

// URL returns the channel's page.
func (id ChannelID) URL() string { return "https://www.youtube.com/channel/" + string(id) }

// VideoID identifies a video. Ids extracted from responses are taken as-is;
// ParseVideoID validates user input.
type VideoID string

// ParseVideoID accepts a bare 11-character id or a watch/share URL.
func ParseVideoID(s string) (VideoID, error) {
	s = strings.TrimSpace(s)
	if videoIDRE.MatchString(s) {
		return VideoID(s), nil
	}
	if m := videoIDInURLRE.FindStringSubmatch(s); m != nil {
		return VideoID(m[1]), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVideoID, s)
}

func (id VideoID) String() string { return string(id) }

// URL returns the video's watch page.
func (id VideoID) URL() string { return "https://www.youtube.com/watch?v=" + string(id) }

// Author is the channel a stream belongs to.
type Author struct {
	ChannelID    ChannelID `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
}

// Thumbnail is one preview image.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultThumbnails returns the thumbnails every video has, derived from its id.
func DefaultThumbnails(id VideoID) []Thumbnail {
	base := "https://img.youtube.com/vi/" + string(id) + "/"
	return []Thumbnail{
		{URL: base + "default.jpg", Width: 120, Height: 90},
		{URL: base + "mqdefault.jpg", Width: 320, Height: 180},
		{URL: base + "hqdefault.jpg", Width: 480, Height: 360},
		{URL: base + "sddefault.jpg", Width: 640, Height: 480},
		{URL: base + "maxresdefault.jpg", Width: 1920, Height: 1080},
	}
}

// StreamStatus is the life-cycle state of a stream.
type StreamStatus int

const (
	StatusLive StreamStatus = iota
	StatusUpcoming
	StatusPast
)

func (s StreamStatus) String() string {
	switch s {
	case StatusLive:
		return "live"
	case StatusUpcoming:
		return "upcoming"
	case StatusPast:
		return "past"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s StreamStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStreamStatus parses "live", "upcoming" or "past", case-insensitively.
func ParseStreamStatus(s string) (StreamStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live":
		return StatusLive, nil
	case "upcoming":
		return StatusUpcoming, nil
	case "past":
		return StatusPast, nil
	}
	return 0, fmt.Errorf("invalid stream status %q: must be live, upcoming or past", s)
}

// Stream is the metadata of one stream on a channel. Title may be empty.
// Duration is nil for live and upcoming streams and whenever it can't be read.
type Stream struct {
	ID         VideoID
	Title      string
	Author     Author
	Duration   *time.Duration
	Thumbnails []Thumbnail
	Status     StreamStatus
}

// URL returns the watch page of the stream.
func (s Stream) URL() string {
	return s.ID.URL()
}
