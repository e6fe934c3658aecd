package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/ytstreams/internal/aggregator"
	"github.com/gauthierbraillon/ytstreams/internal/display"
	"github.com/gauthierbraillon/ytstreams/internal/metrics"
	"github.com/gauthierbraillon/ytstreams/internal/store"
	"github.com/gauthierbraillon/ytstreams/internal/youtube"
)

// newWatchCmd creates the watch subcommand.
func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration
	var metricsAddr string
	var statusFlags []string
	var once bool

	cmd := &cobra.Command{
		Use:   "watch <channel>...",
		Short: "Poll channels and report streams not seen before",
		Long: "Poll channels and print each stream the first time it is seen or when its status changes, " +
			"e.g. when an upcoming stream goes live. Seen streams are kept in a SQLite database.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseChannels(args)
			if err != nil {
				return err
			}
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.PollInterval
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = a.cfg.MetricsAddr
			}
			if interval < time.Second {
				return fmt.Errorf("interval must be at least 1s, got %s", interval)
			}

			st, err := store.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			reg := prometheus.NewRegistry()
			w := &watcher{
				client: a.newClient(metrics.New(reg)),
				store:  st,
				out:    cmd.OutOrStdout(),
				ids:    ids,
				opts:   aggregator.FeedOptions{Statuses: statuses},
			}

			ctx := cmd.Context()
			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, reg)
				defer stop()
			}

			if once {
				_, err := w.poll(ctx)
				return err
			}
			return w.run(ctx, interval)
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 5*time.Minute, "Time between polls (default from YTSTREAMS_POLL_INTERVAL)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", []string{"live", "upcoming"}, "Statuses to report (live, upcoming, past)")
	cmd.Flags().BoolVar(&once, "once", false, "Poll once and exit")

	return cmd
}

// watcher reports streams the store has not seen in their current status.
type watcher struct {
	client aggregator.Lister
	store  *store.Store
	out    io.Writer
	ids    []youtube.ChannelID
	opts   aggregator.FeedOptions
}

// run polls until ctx is cancelled. A failed poll is logged and retried on
// the next tick.
func (w *watcher) run(ctx context.Context, interval time.Duration) error {
	for _, id := range w.ids {
		n, err := w.store.Count(ctx, id)
		if err != nil {
			return err
		}
		slog.Debug("watching channel", slog.String("channel", string(id)), slog.Int("known", n))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := w.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("poll failed", slog.Any("err", err))
		} else {
			slog.Debug("poll done", slog.Int("new", n))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// poll lists the channels once and prints the streams that are new. A stream
// seen before in another status is printed with its previous status.
func (w *watcher) poll(ctx context.Context) (int, error) {
	streams, err := aggregator.Collect(ctx, w.client, w.ids, w.opts)
	if err != nil {
		return 0, err
	}

	formatter := display.NewTerminalFormatter()
	n := 0
	for _, s := range streams {
		prev, known, err := w.store.Seen(ctx, s.ID)
		if err != nil {
			return n, err
		}
		isNew, err := w.store.MarkSeen(ctx, s)
		if err != nil {
			return n, err
		}
		if !isNew {
			continue
		}
		n++
		if known {
			slog.Debug("stream changed status",
				slog.String("video", string(s.ID)),
				slog.String("from", prev.String()),
				slog.String("to", s.Status.String()))
			fmt.Fprintf(w.out, "%s -> %s\n", prev, s.Status)
		}
		fmt.Fprint(w.out, formatter.FormatStream(s))
	}
	return n, nil
}

// serveMetrics exposes reg on addr/metrics and returns a function that shuts
// the server down.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.String("addr", addr), slog.Any("err", err))
		}
	}()
	slog.Info("serving metrics", slog.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
