// Package aggregator combines the streams of several channels into one view.
//
// This package enables ytstreams to:
// - List many channels at once, one pager per channel
// - Show live streams first, then upcoming, then past
// - Filter by status and cap the number of streams shown
package aggregator

import (
	"context"
	"iter"

	"github.com/gauthierbraillon/ytstreams/internal/youtube"
)

// Lister enumerates the streams of one channel. *youtube.Client implements it.
type Lister interface {
	Streams(ctx context.Context, channelID youtube.ChannelID) iter.Seq2[youtube.Stream, error]
	LiveStreams(ctx context.Context, channelID youtube.ChannelID) iter.Seq2[youtube.Stream, error]
	UpcomingStreams(ctx context.Context, channelID youtube.ChannelID) iter.Seq2[youtube.Stream, error]
	PastStreams(ctx context.Context, channelID youtube.ChannelID) iter.Seq2[youtube.Stream, error]
}

// FeedOptions configures feed retrieval.
type FeedOptions struct {
	// Statuses keeps only streams with one of these statuses. Empty keeps all.
	Statuses []youtube.StreamStatus
	// Limit caps the merged feed. Zero means no limit.
	Limit int
	// PerChannelLimit stops each channel's listing after this many matching
	// streams. Zero means no limit.
	PerChannelLimit int
}

func (o FeedOptions) wants(s youtube.StreamStatus) bool {
	if len(o.Statuses) == 0 {
		return true
	}
	for _, want := range o.Statuses {
		if want == s {
			return true
		}
	}
	return false
}
