package browser

import (
	"strings"
	"testing"
)

// recorder captures the command Open would start.
type recorder struct {
	name string
	args []string
}

func (r *recorder) run(name string, args ...string) error {
	r.name = name
	r.args = args
	return nil
}

func TestOpen_UsesPlatformCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"linux", "xdg-open", []string{"https://www.youtube.com/watch?v=abc"}},
		{"darwin", "open", []string{"https://www.youtube.com/watch?v=abc"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://www.youtube.com/watch?v=abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			rec := &recorder{}
			err := New(WithGOOS(tt.goos), WithRunner(rec.run)).Open("https://www.youtube.com/watch?v=abc")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.name != tt.name || strings.Join(rec.args, " ") != strings.Join(tt.args, " ") {
				t.Errorf("ran %s %v, want %s %v", rec.name, rec.args, tt.name, tt.args)
			}
		})
	}
}

func TestOpen_UnsupportedPlatform(t *testing.T) {
	rec := &recorder{}
	err := New(WithGOOS("plan9"), WithRunner(rec.run)).Open("https://example.com")
	if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected platform error, got %v", err)
	}
	if rec.name != "" {
		t.Error("nothing should run on an unsupported platform")
	}
}

func TestOpen_RejectsInvalidScheme(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "data:text/html,<script>alert(1)</script>"},
		{"ftp scheme", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := New(WithRunner(rec.run)).Open(tt.url)
			if err == nil {
				t.Fatalf("Should reject %s, but got no error", tt.url)
			}
			if !strings.Contains(err.Error(), "unsupported URL scheme") {
				t.Errorf("Expected scheme error, got: %v", err)
			}
			if rec.name != "" {
				t.Error("no command should run for a rejected URL")
			}
		})
	}
}

func TestOpen_RejectsMalformedURL(t *testing.T) {
	for _, u := range []string{"http://example.com\nrm -rf /", "http://example.com\x00"} {
		rec := &recorder{}
		if err := New(WithRunner(rec.run)).Open(u); err == nil {
			t.Errorf("Should reject %q", u)
		}
	}
}

func TestOpen_RejectsEmptyURL(t *testing.T) {
	err := New(WithRunner((&recorder{}).run)).Open("")
	if err == nil {
		t.Fatal("Should reject empty URL")
	}
	if !strings.Contains(err.Error(), "unsupported URL scheme") && !strings.Contains(err.Error(), "invalid URL") {
		t.Errorf("Expected URL validation error, got: %v", err)
	}
}

func TestYouTube_AllowsOnlyYouTubeHosts(t *testing.T) {
	tests := []struct {
		url     string
		allowed bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://youtube.com/live/abc", true},
		{"https://youtu.be/abc", true},
		{"https://m.youtube.com/watch?v=abc", true},
		{"https://youtube.com.evil.example/watch", false},
		{"https://notyoutube.com/watch", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			rec := &recorder{}
			err := YouTube(WithGOOS("linux"), WithRunner(rec.run)).Open(tt.url)
			if tt.allowed && err != nil {
				t.Errorf("should open %s: %v", tt.url, err)
			}
			if !tt.allowed && (err == nil || rec.name != "") {
				t.Errorf("should refuse %s", tt.url)
			}
		})
	}
}
