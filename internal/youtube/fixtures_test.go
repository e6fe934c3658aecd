package youtube

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const testChannel = ChannelID("UCSMOQeBJ2RAnuFungnQOxLg")

type object = map[string]any

// rendererOption tweaks a videoRenderer under construction.
type rendererOption func(object)

func videoRenderer(id string, opts ...rendererOption) object {
	vr := object{
		"videoId": id,
		"title":   object{"runs": []any{object{"text": "Stream " + id}}},
		"longBylineText": object{"runs": []any{object{
			"text": "Test Channel",
			"navigationEndpoint": object{
				"browseEndpoint": object{"browseId": string(testChannel)},
			},
		}}},
		"thumbnail": object{"thumbnails": []any{
			object{"url": "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg", "width": 168, "height": 94},
		}},
		"lengthText": object{"simpleText": "1:05"},
	}
	for _, opt := range opts {
		opt(vr)
	}
	return vr
}

// gridItem wraps a renderer the way the streams grid does.
func gridItem(id string, opts ...rendererOption) object {
	return object{"richItemRenderer": object{"content": object{"videoRenderer": videoRenderer(id, opts...)}}}
}

func live(vr object) {
	delete(vr, "lengthText")
	vr["thumbnailOverlays"] = []any{object{"thumbnailOverlayTimeStatusRenderer": object{"style": "LIVE"}}}
}

func upcoming(vr object) {
	delete(vr, "lengthText")
	vr["upcomingEventData"] = object{"startTime": "1767225600"}
}

func past(object) {}

func fromChannel(id string) rendererOption {
	return func(vr object) {
		vr["longBylineText"] = object{"runs": []any{object{
			"text":               "Other Channel",
			"navigationEndpoint": object{"browseEndpoint": object{"browseId": id}},
		}}}
	}
}

func withoutAuthor(vr object) {
	delete(vr, "longBylineText")
}

func continuationItem(token string) object {
	return object{"continuationItemRenderer": object{
		"continuationEndpoint": object{"continuationCommand": object{"token": token}},
	}}
}

// initialData builds a streams tab blob. An empty token leaves the grid open-ended.
func initialData(title string, items []any, token string) object {
	contents := append([]any{}, items...)
	if token != "" {
		contents = append(contents, continuationItem(token))
	}
	data := object{
		"contents": object{"twoColumnBrowseResultsRenderer": object{"tabs": []any{
			object{"tabRenderer": object{"title": "Live", "content": object{
				"richGridRenderer": object{"contents": contents},
			}}},
		}}},
	}
	if title != "" {
		data["header"] = object{"pageHeaderRenderer": object{"pageTitle": title}}
	}
	return data
}

// continuationData builds a browse response appending items to the grid.
func continuationData(items []any, token string) object {
	contents := append([]any{}, items...)
	if token != "" {
		contents = append(contents, continuationItem(token))
	}
	return object{"onResponseReceivedActions": []any{
		object{"appendContinuationItemsAction": object{"continuationItems": contents}},
	}}
}

func streamsPage(t *testing.T, data object) string {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to encode initial data: %v", err)
	}
	return `<!DOCTYPE html><html><head><script>var ytcfg = {"INNERTUBE_CONTEXT_CLIENT_NAME": 1};</script></head>` +
		`<body><script nonce="n0">var ytInitialData = ` + string(raw) + `;</script></body></html>`
}

// fakeYouTube serves one channel's streams page and its continuations.
type fakeYouTube struct {
	t *testing.T

	mu            sync.Mutex
	pages         []string // served in order; the last one repeats
	pageStatus    int
	continuations map[string]string
	browseStatus  int
	pageCalls     int
	browseCalls   int
	browseBodies  []browseRequest
	lastHeaders   http.Header
}

func newFakeYouTube(t *testing.T, first object) *fakeYouTube {
	return &fakeYouTube{
		t:             t,
		pages:         []string{streamsPage(t, first)},
		continuations: make(map[string]string),
	}
}

func (f *fakeYouTube) continuation(token string, data object) {
	raw, err := json.Marshal(data)
	if err != nil {
		f.t.Fatalf("failed to encode continuation: %v", err)
	}
	f.continuations[token] = string(raw)
}

func (f *fakeYouTube) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastHeaders = r.Header.Clone()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/channel/"+string(testChannel)+"/streams":
		f.pageCalls++
		if f.pageStatus != 0 {
			w.WriteHeader(f.pageStatus)
			return
		}
		page := f.pages[min(f.pageCalls, len(f.pages))-1]
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, page)

	case r.Method == http.MethodPost && r.URL.Path == browsePath:
		f.browseCalls++
		var req browseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Errorf("continuation body should be JSON: %v", err)
		}
		f.browseBodies = append(f.browseBodies, req)
		if f.browseStatus != 0 {
			w.WriteHeader(f.browseStatus)
			return
		}
		body, ok := f.continuations[req.Continuation]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeYouTube) calls() (pages, browses int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCalls, f.browseCalls
}

func (f *fakeYouTube) start(t *testing.T) *httptest.Server {
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(baseURL string, opts ...ClientOption) *Client {
	opts = append([]ClientOption{
		WithBaseURL(baseURL),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithFirstPageRetry(DefaultFirstPageAttempts, 0),
	}, opts...)
	return NewClient(opts...)
}

func collect(t *testing.T, seq func(func(Stream, error) bool)) ([]Stream, error) {
	t.Helper()
	var streams []Stream
	for s, err := range seq {
		if err != nil {
			return streams, err
		}
		streams = append(streams, s)
	}
	return streams, nil
}

func ids(streams []Stream) string {
	parts := make([]string, len(streams))
	for i, s := range streams {
		parts[i] = string(s.ID)
	}
	return strings.Join(parts, ",")
}
