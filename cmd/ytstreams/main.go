// Package main provides the ytstreams CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/ytstreams/internal/aggregator"
	"github.com/gauthierbraillon/ytstreams/internal/config"
	"github.com/gauthierbraillon/ytstreams/internal/display"
	"github.com/gauthierbraillon/ytstreams/internal/metrics"
	"github.com/gauthierbraillon/ytstreams/internal/youtube"
	"github.com/gauthierbraillon/ytstreams/pkg/browser"
)

// version is injected at build time:
//
//	go build -ldflags="-X main.version=$(git describe --tags --always --dirty)" ./cmd/ytstreams
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags value and falls back to the module
// version recorded by `go install`.
func resolveVersion(v string, bi *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if bi == nil || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "dev"
	}
	return bi.Main.Version
}

func buildVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return resolveVersion(version, nil)
	}
	return resolveVersion(version, bi)
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg     *config.Config
	verbose bool
}

// newRootCmd creates the root command for ytstreams CLI.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "ytstreams",
		Short:        "List the live, upcoming and past streams of YouTube channels",
		Long:         "ytstreams reads a channel's streams tab without an API key and lists its live, upcoming and past streams.",
		Version:      buildVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.SetVersionTemplate("ytstreams version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log requests and paging decisions to stderr")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newLiveCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newOpenCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// setup loads .env files and the environment configuration.
func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := config.LoadDotEnv(filepath.Join(config.Load().ConfigDir, ".env")); err != nil {
		return err
	}

	a.cfg = config.Load()
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// newClient builds a YouTube client from the configuration.
func (a *app) newClient(m *metrics.Metrics) *youtube.Client {
	opts := []youtube.ClientOption{
		youtube.WithBaseURL(a.cfg.BaseURL),
		youtube.WithHTTPClient(&http.Client{Timeout: a.cfg.RequestTimeout}),
		youtube.WithFirstPageRetry(a.cfg.FirstPageAttempts, a.cfg.FirstPageInterval),
		youtube.WithLiveEarlyStop(a.cfg.LiveEarlyStop),
		youtube.WithLogger(slog.Default()),
		youtube.WithMetrics(m),
	}
	if a.cfg.RequestsPerSecond > 0 {
		opts = append(opts, youtube.WithRateLimiter(rate.NewLimiter(rate.Limit(a.cfg.RequestsPerSecond), 1)))
	}
	return youtube.NewClient(opts...)
}

// parseChannels accepts channel ids and channel URLs.
func parseChannels(args []string) ([]youtube.ChannelID, error) {
	ids := make([]youtube.ChannelID, 0, len(args))
	for _, arg := range args {
		id, err := youtube.ParseChannelID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseStatuses(values []string) ([]youtube.StreamStatus, error) {
	statuses := make([]youtube.StreamStatus, 0, len(values))
	for _, v := range values {
		s, err := youtube.ParseStreamStatus(v)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func printStreams(w io.Writer, streams []youtube.Stream, asJSON bool) error {
	if asJSON {
		return display.JSON(w, streams)
	}
	_, err := fmt.Fprint(w, display.NewTerminalFormatter().FormatStreams(streams))
	return err
}

// newListCmd creates the list subcommand.
func newListCmd(a *app) *cobra.Command {
	var statusFlags []string
	var limit, perChannel int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <channel>...",
		Short: "List the streams of one or more channels",
		Long:  "List the streams of one or more channels, live first, then upcoming, then past.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseChannels(args)
			if err != nil {
				return err
			}
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}

			streams, err := aggregator.Collect(cmd.Context(), a.newClient(nil), ids, aggregator.FeedOptions{
				Statuses:        statuses,
				Limit:           limit,
				PerChannelLimit: perChannel,
			})
			if err != nil {
				return err
			}
			return printStreams(cmd.OutOrStdout(), streams, asJSON)
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Only show streams with this status (live, upcoming, past)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of streams to display (0 = no limit)")
	cmd.Flags().IntVar(&perChannel, "per-channel", 0, "Stop paging a channel after this many streams (0 = no limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print streams as JSON")

	return cmd
}

// newLiveCmd creates the live subcommand.
func newLiveCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "live <channel>...",
		Short: "Show the streams that are live right now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseChannels(args)
			if err != nil {
				return err
			}
			streams, err := aggregator.Collect(cmd.Context(), a.newClient(nil), ids, aggregator.FeedOptions{
				Statuses: []youtube.StreamStatus{youtube.StatusLive},
			})
			if err != nil {
				return err
			}
			return printStreams(cmd.OutOrStdout(), streams, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print streams as JSON")

	return cmd
}

// newOpenCmd creates the open subcommand.
func newOpenCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open <channel|video>",
		Short: "Open the channel's current live stream in the browser",
		Long: "Open the channel's current live stream in the browser. " +
			"A video id or watch URL is opened as is, without listing the channel.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			open := func(title, url string) error {
				if title != "" {
					fmt.Fprintln(cmd.OutOrStdout(), title)
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				if printOnly {
					return nil
				}
				if err := browser.YouTube().Open(url); err != nil {
					return fmt.Errorf("could not open browser: %w", err)
				}
				return nil
			}

			id, err := youtube.ParseChannelID(args[0])
			if err != nil {
				video, verr := youtube.ParseVideoID(args[0])
				if verr != nil {
					return fmt.Errorf("%w; %w", err, verr)
				}
				return open("", video.URL())
			}

			for s, err := range a.newClient(nil).LiveStreams(cmd.Context(), id) {
				if err != nil {
					return err
				}
				return open(s.Title, s.URL())
			}
			return fmt.Errorf("channel %s is not live", id)
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the stream URL without opening a browser")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Show the configuration resolved from YTSTREAMS_* variables and .env files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory:    %s\n", a.cfg.ConfigDir)
			fmt.Fprintf(out, "Database:            %s\n", a.cfg.DBPath)
			fmt.Fprintf(out, "Base URL:            %s\n", a.cfg.BaseURL)
			fmt.Fprintf(out, "Request timeout:     %s\n", a.cfg.RequestTimeout)
			fmt.Fprintf(out, "Requests per second: %g\n", a.cfg.RequestsPerSecond)
			fmt.Fprintf(out, "First page attempts: %d\n", a.cfg.FirstPageAttempts)
			fmt.Fprintf(out, "Live early stop:     %t\n", a.cfg.LiveEarlyStop)
			fmt.Fprintf(out, "Poll interval:       %s\n", a.cfg.PollInterval)
			if a.cfg.MetricsAddr != "" {
				fmt.Fprintf(out, "Metrics address:     %s\n", a.cfg.MetricsAddr)
			}
			return nil
		},
	}

	return cmd
}
