package aggregator

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/ytstreams/internal/youtube"
)

// maxConcurrentChannels bounds how many channels are paged at once.
const maxConcurrentChannels = 4

// Aggregator collects and merges streams from multiple channels.
type Aggregator struct {
	items []youtube.Stream
	seen  map[youtube.VideoID]struct{}
}

// New creates a new Aggregator instance.
func New() *Aggregator {
	return &Aggregator{
		items: make([]youtube.Stream, 0),
		seen:  make(map[youtube.VideoID]struct{}),
	}
}

// AddItems adds streams to the aggregator. A stream already added, possibly
// from another channel, is ignored.
func (a *Aggregator) AddItems(items []youtube.Stream) {
	for _, s := range items {
		if _, dup := a.seen[s.ID]; dup {
			continue
		}
		a.seen[s.ID] = struct{}{}
		a.items = append(a.items, s)
	}
}

// GetFeed returns the streams ordered live, upcoming, past. Within a status
// the order streams were added in is kept.
func (a *Aggregator) GetFeed(opts FeedOptions) []youtube.Stream {
	feed := make([]youtube.Stream, 0, len(a.items))
	for _, s := range a.items {
		if opts.wants(s.Status) {
			feed = append(feed, s)
		}
	}

	slices.SortStableFunc(feed, func(x, y youtube.Stream) int {
		return int(x.Status) - int(y.Status)
	})

	if opts.Limit > 0 && len(feed) > opts.Limit {
		feed = feed[:opts.Limit]
	}
	return feed
}

// Collect lists every channel concurrently and merges the result. The first
// failing channel cancels the others and its error is returned.
func Collect(ctx context.Context, lister Lister, channelIDs []youtube.ChannelID, opts FeedOptions) ([]youtube.Stream, error) {
	results := make([][]youtube.Stream, len(channelIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChannels)
	for i, id := range channelIDs {
		g.Go(func() error {
			streams, err := listChannel(ctx, lister, id, opts)
			if err != nil {
				return fmt.Errorf("failed to list streams for channel %s: %w", id, err)
			}
			results[i] = streams
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := New()
	for _, streams := range results {
		agg.AddItems(streams)
	}
	return agg.GetFeed(opts), nil
}

func listChannel(ctx context.Context, lister Lister, id youtube.ChannelID, opts FeedOptions) ([]youtube.Stream, error) {
	var streams []youtube.Stream
	for s, err := range sequence(ctx, lister, id, opts.Statuses) {
		if err != nil {
			return nil, err
		}
		if !opts.wants(s.Status) {
			continue
		}
		streams = append(streams, s)
		if opts.PerChannelLimit > 0 && len(streams) >= opts.PerChannelLimit {
			break
		}
	}
	return streams, nil
}

// sequence picks the filtered listing when a single status is wanted so the
// client can stop paging early.
func sequence(ctx context.Context, lister Lister, id youtube.ChannelID, statuses []youtube.StreamStatus) iter.Seq2[youtube.Stream, error] {
	if len(statuses) != 1 {
		return lister.Streams(ctx, id)
	}
	switch statuses[0] {
	case youtube.StatusLive:
		return lister.LiveStreams(ctx, id)
	case youtube.StatusUpcoming:
		return lister.UpcomingStreams(ctx, id)
	default:
		return lister.PastStreams(ctx, id)
	}
}
