package youtube

import (
	"errors"
	"testing"
)

func TestParseChannelID(t *testing.T) {
	tests := []struct {
		in      string
		want    ChannelID
		wantErr bool
	}{
		{"UCSMOQeBJ2RAnuFungnQOxLg", "UCSMOQeBJ2RAnuFungnQOxLg", false},
		{" UCSMOQeBJ2RAnuFungnQOxLg\n", "UCSMOQeBJ2RAnuFungnQOxLg", false},
		{"https://www.youtube.com/channel/UCSMOQeBJ2RAnuFungnQOxLg", "UCSMOQeBJ2RAnuFungnQOxLg", false},
		{"https://www.youtube.com/channel/UCSMOQeBJ2RAnuFungnQOxLg/streams?view=2", "UCSMOQeBJ2RAnuFungnQOxLg", false},
		{"UCSMOQeBJ2RAnuFungnQOx", "", true},
		{"https://www.youtube.com/@LofiGirl", "", true},
		{"https://www.youtube.com/channel/UCshort", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannelID(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChannelID) {
					t.Errorf("ParseChannelID(%q) error = %v, want ErrInvalidChannelID", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseChannelID(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		in      string
		want    VideoID
		wantErr bool
	}{
		{"jfKfPfyJRdk", "jfKfPfyJRdk", false},
		{"rUxyKA_-grg", "rUxyKA_-grg", false},
		{"https://www.youtube.com/watch?v=jfKfPfyJRdk", "jfKfPfyJRdk", false},
		{"https://www.youtube.com/watch?feature=share&v=jfKfPfyJRdk&t=10", "jfKfPfyJRdk", false},
		{"https://m.youtube.com/live/jfKfPfyJRdk?si=abc", "jfKfPfyJRdk", false},
		{"https://www.youtube.com/embed/jfKfPfyJRdk", "jfKfPfyJRdk", false},
		{"https://www.youtube.com/shorts/jfKfPfyJRdk", "jfKfPfyJRdk", false},
		{"https://youtu.be/jfKfPfyJRdk?t=42", "jfKfPfyJRdk", false},
		{"jfKfPfyJRd", "", true},
		{"jfKfPfyJRdk!", "", true},
		{"https://www.youtube.com/watch?list=PL123", "", true},
		{"https://example.com/watch?v=jfKfPfyJRdk", "", true},
		{"UCSMOQeBJ2RAnuFungnQOxLg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVideoID(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVideoID) {
					t.Errorf("ParseVideoID(%q) error = %v, want ErrInvalidVideoID", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseVideoID(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
			if got.URL() != "https://www.youtube.com/watch?v="+string(tt.want) {
				t.Errorf("unexpected watch URL %q", got.URL())
			}
		})
	}
}

func TestParseStreamStatus(t *testing.T) {
	for in, want := range map[string]StreamStatus{
		"live":     StatusLive,
		"UPCOMING": StatusUpcoming,
		" Past ":   StatusPast,
	} {
		got, err := ParseStreamStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStreamStatus(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseStreamStatus("premiere"); err == nil {
		t.Error("unknown status should be rejected")
	}
}
