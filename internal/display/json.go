package display

import (
	"encoding/json"
	"io"

	"github.com/gauthierbraillon/ytstreams/internal/youtube"
)

// streamJSON is the stable wire shape of a stream.
type streamJSON struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	URL             string               `json:"url"`
	Status          youtube.StreamStatus `json:"status"`
	Author          youtube.Author       `json:"author"`
	DurationSeconds *int64               `json:"duration_seconds,omitempty"`
	Thumbnails      []youtube.Thumbnail  `json:"thumbnails"`
}

// JSON writes streams as an indented JSON array. An empty list is written as [].
func JSON(w io.Writer, streams []youtube.Stream) error {
	out := make([]streamJSON, 0, len(streams))
	for _, s := range streams {
		v := streamJSON{
			ID:         string(s.ID),
			Title:      s.Title,
			URL:        s.URL(),
			Status:     s.Status,
			Author:     s.Author,
			Thumbnails: s.Thumbnails,
		}
		if s.Duration != nil {
			secs := int64(s.Duration.Seconds())
			v.DurationSeconds = &secs
		}
		out = append(out, v)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
