// Package browser opens stream pages in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Runner starts an external command without waiting for it.
type Runner func(name string, args ...string) error

// Option configures an Opener.
type Option func(*Opener)

// WithRunner replaces the command runner (useful for testing).
func WithRunner(run Runner) Option {
	return func(o *Opener) {
		o.run = run
	}
}

// WithGOOS overrides the platform used to pick the open command.
func WithGOOS(goos string) Option {
	return func(o *Opener) {
		o.goos = goos
	}
}

// WithAllowedHosts restricts Open to the given hosts and their subdomains.
func WithAllowedHosts(hosts ...string) Option {
	return func(o *Opener) {
		o.hosts = hosts
	}
}

// Opener opens validated URLs with the platform's URL handler.
type Opener struct {
	goos  string
	run   Runner
	hosts []string
}

// New creates an Opener for the current platform.
func New(opts ...Option) *Opener {
	o := &Opener{
		goos: runtime.GOOS,
		run:  startCommand,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// YouTube returns an Opener limited to youtube.com and youtu.be.
func YouTube(opts ...Option) *Opener {
	return New(append([]Option{WithAllowedHosts("youtube.com", "youtu.be")}, opts...)...)
}

// Open opens the specified URL in the default browser.
// It validates the URL before passing it to the system browser to prevent command injection.
func Open(urlString string) error {
	return New().Open(urlString)
}

// Open validates urlString and hands it to the platform's URL handler.
func (o *Opener) Open(urlString string) error {
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// Whitelist allowed schemes to prevent malicious URLs
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsedURL.Scheme)
	}
	if !o.allowed(parsedURL.Hostname()) {
		return fmt.Errorf("refusing to open %s: host not allowed", parsedURL.Hostname())
	}

	name, args, err := command(o.goos, parsedURL.String())
	if err != nil {
		return err
	}
	return o.run(name, args...)
}

func (o *Opener) allowed(host string) bool {
	if len(o.hosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, h := range o.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func command(goos, urlString string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{urlString}, nil
	case "darwin":
		return "open", []string{urlString}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", urlString}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated by Open
}
