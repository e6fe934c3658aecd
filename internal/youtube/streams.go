package youtube

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"
)

type pagerState int

const (
	stateFetchFirstPage pagerState = iota
	stateFetchContinuation
	stateDone
)

// StreamPager walks the stream listing of one channel, one page per network
// call. It is not safe for concurrent use; separate pagers share nothing.
type StreamPager struct {
	client    *Client
	channelID ChannelID

	state  pagerState
	cursor string
	buf    []Stream
	err    error

	seenIDs      map[VideoID]struct{}
	seenCursors  map[string]struct{}
	channelTitle string
}

// NewStreamPager returns a pager positioned before the first page.
func (c *Client) NewStreamPager(channelID ChannelID) *StreamPager {
	return &StreamPager{
		client:      c,
		channelID:   channelID,
		state:       stateFetchFirstPage,
		seenIDs:     make(map[VideoID]struct{}),
		seenCursors: make(map[string]struct{}),
	}
}

// Next returns the next stream. It returns ErrDone once the listing is
// exhausted; any other error is final and repeated on later calls.
func (p *StreamPager) Next(ctx context.Context) (Stream, error) {
	for {
		if len(p.buf) > 0 {
			s := p.buf[0]
			p.buf = p.buf[1:]
			p.client.metrics.StreamYielded(s.Status.String())
			return s, nil
		}
		if p.err != nil {
			return Stream{}, p.err
		}

		var (
			resp *Response
			err  error
		)
		switch p.state {
		case stateFetchFirstPage:
			resp, err = p.client.fetchFirstPage(ctx, p.channelID)
		case stateFetchContinuation:
			resp, err = p.client.fetchContinuation(ctx, p.cursor)
		default:
			return Stream{}, ErrDone
		}
		if err != nil {
			p.fail(err)
			continue
		}

		p.consume(resp)
	}
}

func (p *StreamPager) fail(err error) {
	p.state = stateDone
	p.err = err
}

// consume turns a page into buffered streams and decides where to go next.
// A fatal item error still lets the streams before it through.
func (p *StreamPager) consume(resp *Response) {
	if p.channelTitle == "" {
		p.channelTitle = strings.TrimSpace(resp.ChannelTitle())
	}

	newStreams := 0
	for _, data := range resp.Streams() {
		s, ok, err := p.stream(data)
		if err != nil {
			p.fail(err)
			return
		}
		if !ok {
			continue
		}
		p.buf = append(p.buf, s)
		newStreams++
	}

	logger := p.client.logger.With(slog.String("channel", string(p.channelID)))
	if newStreams == 0 {
		logger.Debug("page brought no new streams, stopping")
		p.state = stateDone
		return
	}

	next := resp.ContinuationToken()
	if strings.TrimSpace(next) == "" {
		logger.Debug("no continuation, listing complete", slog.Int("streams", len(p.seenIDs)))
		p.state = stateDone
		return
	}
	if _, used := p.seenCursors[next]; used {
		logger.Debug("continuation already used, stopping")
		p.state = stateDone
		return
	}
	p.seenCursors[next] = struct{}{}
	p.cursor = next
	p.state = stateFetchContinuation
}

// stream validates one item record. ok is false for items that are skipped.
func (p *StreamPager) stream(d StreamData) (Stream, bool, error) {
	if d.ID == "" {
		return Stream{}, false, missing("video ID")
	}
	id := VideoID(d.ID)

	if _, dup := p.seenIDs[id]; dup {
		p.client.metrics.DuplicateDropped()
		return Stream{}, false, nil
	}
	p.seenIDs[id] = struct{}{}

	channelID := strings.TrimSpace(d.ChannelID)
	if channelID != "" && channelID != string(p.channelID) {
		p.client.metrics.ForeignItemDropped()
		return Stream{}, false, nil
	}

	author := strings.TrimSpace(d.Author)
	if p.channelTitle == "" {
		p.channelTitle = author
	}
	if author == "" {
		author = p.channelTitle
	}
	if author == "" {
		return Stream{}, false, missing("video author")
	}

	thumbs, err := thumbnails(d.Thumbnails)
	if err != nil {
		return Stream{}, false, err
	}

	s := Stream{
		ID: id,
		Author: Author{
			ChannelID:    p.channelID,
			ChannelTitle: author,
		},
		Duration:   d.Duration,
		Thumbnails: append(thumbs, DefaultThumbnails(id)...),
		Status:     d.Status(),
	}
	if d.Title != nil {
		s.Title = *d.Title
	}
	if channelID != "" {
		s.Author.ChannelID = ChannelID(channelID)
	}
	return s, true, nil
}

func thumbnails(data []ThumbnailData) ([]Thumbnail, error) {
	thumbs := make([]Thumbnail, 0, len(data)+5)
	for _, t := range data {
		switch {
		case t.URL == nil:
			return nil, missing("thumbnail URL")
		case t.Width == nil:
			return nil, missing("thumbnail width")
		case t.Height == nil:
			return nil, missing("thumbnail height")
		}
		thumbs = append(thumbs, Thumbnail{URL: *t.URL, Width: *t.Width, Height: *t.Height})
	}
	return thumbs, nil
}

// Streams enumerates every stream of the channel in upstream order. The
// sequence ends after the first error.
func (c *Client) Streams(ctx context.Context, channelID ChannelID) iter.Seq2[Stream, error] {
	return func(yield func(Stream, error) bool) {
		p := c.NewStreamPager(channelID)
		for {
			s, err := p.Next(ctx)
			if errors.Is(err, ErrDone) {
				return
			}
			if err != nil {
				yield(Stream{}, err)
				return
			}
			if !yield(s, nil) {
				return
			}
		}
	}
}

// LiveStreams enumerates the streams that are live now.
func (c *Client) LiveStreams(ctx context.Context, channelID ChannelID) iter.Seq2[Stream, error] {
	return c.filter(ctx, channelID, StatusLive, func(s StreamStatus) bool {
		return s == StatusPast
	})
}

// UpcomingStreams enumerates scheduled streams that have not started yet.
func (c *Client) UpcomingStreams(ctx context.Context, channelID ChannelID) iter.Seq2[Stream, error] {
	return c.filter(ctx, channelID, StatusUpcoming, func(s StreamStatus) bool {
		return s != StatusUpcoming
	})
}

// PastStreams enumerates finished streams.
func (c *Client) PastStreams(ctx context.Context, channelID ChannelID) iter.Seq2[Stream, error] {
	return c.filter(ctx, channelID, StatusPast, nil)
}

// filter yields streams with the wanted status. With early stop enabled it
// ends at the first stream for which stop reports true.
func (c *Client) filter(ctx context.Context, channelID ChannelID, want StreamStatus, stop func(StreamStatus) bool) iter.Seq2[Stream, error] {
	return func(yield func(Stream, error) bool) {
		for s, err := range c.Streams(ctx, channelID) {
			if err != nil {
				yield(Stream{}, err)
				return
			}
			if s.Status == want {
				if !yield(s, nil) {
					return
				}
				continue
			}
			if c.liveEarlyStop && stop != nil && stop(s.Status) {
				c.logger.Debug("stream group ended, stopping early",
					slog.String("channel", string(channelID)),
					slog.String("want", want.String()),
					slog.String("got", s.Status.String()))
				return
			}
		}
	}
}
