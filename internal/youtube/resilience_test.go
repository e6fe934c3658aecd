package youtube

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAC400_StreamsPage_IgnoresUnexpectedFields(t *testing.T) {
	surprise := func(vr object) {
		vr["newFieldFromGoogle"] = "surprise feature!"
		vr["anotherNewField"] = []any{"we", "added", "this"}
	}
	data := initialData("Test Channel", []any{gridItem("abc123", surprise)}, "")
	data["frameworkUpdates"] = object{"entityBatchUpdate": object{"mutations": []any{}}}
	fake := newFakeYouTube(t, data)
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err != nil {
		t.Fatalf("user should see streams even when YouTube adds new fields, got error: %v", err)
	}
	if len(streams) != 1 {
		t.Fatal("user should see the channel's stream")
	}
	if streams[0].Title != "Stream abc123" {
		t.Error("user should see stream title even with unexpected fields present")
	}
}

func TestAC401_StreamsPage_HandlesEmptyGrid(t *testing.T) {
	fake := newFakeYouTube(t, initialData("Test Channel", nil, ""))
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err != nil {
		t.Fatalf("user should not see error for a channel that never streamed: %v", err)
	}
	if len(streams) != 0 {
		t.Errorf("user should see empty list, got %d streams", len(streams))
	}
	if _, browses := fake.calls(); browses != 0 {
		t.Error("an empty page should not lead to a continuation call")
	}
}

func TestAC402_StreamsPage_HandlesMissingOptionalFields(t *testing.T) {
	minimal := func(vr object) {
		delete(vr, "title")
		delete(vr, "lengthText")
		delete(vr, "thumbnail")
	}
	fake := newFakeYouTube(t, initialData("Test Channel", []any{gridItem("abc123", minimal)}, ""))
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err != nil {
		t.Fatalf("user should see streams with minimal data: %v", err)
	}
	if len(streams) != 1 {
		t.Fatal("user should see stream with minimal data")
	}
	s := streams[0]
	if s.Title != "" || s.Duration != nil {
		t.Errorf("missing title and duration should degrade to empty, got %q, %v", s.Title, s.Duration)
	}
	if len(s.Thumbnails) != 5 {
		t.Errorf("user should still get the default thumbnails, got %d", len(s.Thumbnails))
	}
}

func TestAC403_StreamsPage_ReturnsUserFriendlyErrorOnServerError(t *testing.T) {
	fake := newFakeYouTube(t, initialData("", nil, ""))
	fake.pageStatus = http.StatusServiceUnavailable
	server := fake.start(t)

	_, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err == nil {
		t.Fatal("user should see error message when YouTube is down")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "youtube") {
		t.Errorf("error should mention YouTube for user clarity, got: %v", err)
	}
}

func TestAC404_StreamsPage_ExplainsBrokenPage(t *testing.T) {
	fake := newFakeYouTube(t, initialData("", nil, ""))
	fake.pages = []string{"<html><body>Before you continue to YouTube</body></html>"}
	server := fake.start(t)

	_, err := collect(t, newTestClient(server.URL, WithFirstPageRetry(2, 0)).Streams(context.Background(), testChannel))

	if err == nil {
		t.Fatal("user should see error when the page has no stream data")
	}
	if !errors.Is(err, ErrExtraction) || errors.Is(err, ErrTransport) {
		t.Errorf("a broken page should be reported as extraction failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "try again") {
		t.Errorf("error should tell user to try again later, got: %v", err)
	}
	if pages, _ := fake.calls(); pages != 2 {
		t.Errorf("page calls = %d, want the configured 2 attempts", pages)
	}
}

func TestAC405_Continuation_HandlesRateLimitGracefully(t *testing.T) {
	fake := newFakeYouTube(t, initialData("Test Channel", []any{gridItem("a")}, "t1"))
	fake.browseStatus = http.StatusTooManyRequests
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err == nil {
		t.Fatal("user should see error when rate limit exceeded")
	}
	if len(streams) != 1 {
		t.Error("user should keep the streams fetched before the rate limit")
	}
	errMsg := strings.ToLower(err.Error())
	if !strings.Contains(errMsg, "rate") && !strings.Contains(errMsg, "limit") {
		t.Errorf("error should indicate rate limiting for user understanding, got: %v", err)
	}
}

func TestAC406_Continuation_HandlesMalformedJSON(t *testing.T) {
	fake := newFakeYouTube(t, initialData("Test Channel", []any{gridItem("a")}, "t1"))
	server := fake.start(t)
	fake.continuations["t1"] = `{"onResponseReceivedActions": [{"appendContinuationItemsAction":`

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err == nil {
		t.Fatal("user should see error when YouTube returns malformed JSON")
	}
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("malformed continuation should be an extraction failure, got %v", err)
	}
	if ids(streams) != "a" {
		t.Errorf("streams from the first page should be kept, got %s", ids(streams))
	}
}

func TestAC406_Continuation_DeeplyNestedBodyEndsListing(t *testing.T) {
	fake := newFakeYouTube(t, initialData("Test Channel", []any{gridItem("a")}, "t1"))
	server := fake.start(t)
	fake.continuations["t1"] = strings.Repeat("[", 1<<20)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("deeply nested continuation should be an extraction failure, got %v", err)
	}
	if ids(streams) != "a" {
		t.Errorf("streams from the first page should be kept, got %s", ids(streams))
	}
}

func TestAC407_StreamsPage_HandlesNullFields(t *testing.T) {
	nulls := func(vr object) {
		vr["title"] = nil
		vr["lengthText"] = nil
		vr["badges"] = nil
		vr["thumbnailOverlays"] = nil
	}
	fake := newFakeYouTube(t, initialData("Test Channel", []any{gridItem("abc123", nulls)}, ""))
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err != nil {
		t.Fatalf("user should see streams even when optional fields are null: %v", err)
	}
	if len(streams) != 1 {
		t.Fatal("user should see stream with null fields")
	}
	if streams[0].Status != StatusPast {
		t.Errorf("stream without status signals should be past, got %v", streams[0].Status)
	}
}

func TestAC408_Continuation_HandlesPartialResponseDuringNetworkIssue(t *testing.T) {
	fake := newFakeYouTube(t, initialData("Test Channel", []any{gridItem("a"), gridItem("b")}, "t1"))
	fake.browseStatus = http.StatusInternalServerError
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if ids(streams) != "a,b" {
		t.Errorf("user should see the streams fetched before the failure, got %s", ids(streams))
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestAC409_MalformedCursorEndsListing(t *testing.T) {
	data := initialData("Test Channel", []any{gridItem("a")}, "")
	grid := data["contents"].(object)["twoColumnBrowseResultsRenderer"].(object)["tabs"].([]any)[0].(object)["tabRenderer"].(object)["content"].(object)["richGridRenderer"].(object)
	grid["contents"] = append(grid["contents"].([]any), object{"continuationItemRenderer": object{
		"continuationEndpoint": object{"continuationCommand": object{"token": object{"not": "a string"}}},
	}})
	fake := newFakeYouTube(t, data)
	server := fake.start(t)

	streams, err := collect(t, newTestClient(server.URL).Streams(context.Background(), testChannel))

	if err != nil {
		t.Fatalf("a malformed cursor should end the listing quietly, got %v", err)
	}
	if ids(streams) != "a" {
		t.Errorf("streams = %s, want a", ids(streams))
	}
	if _, browses := fake.calls(); browses != 0 {
		t.Error("no continuation should be requested for a malformed cursor")
	}
}
