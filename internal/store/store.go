// Package store remembers which streams `ytstreams watch` has already reported.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gauthierbraillon/ytstreams/internal/youtube"
)

// Store is a SQLite-backed record of reported streams and their last status.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS seen_streams (
		video_id     TEXT PRIMARY KEY,
		channel_id   TEXT NOT NULL,
		title        TEXT NOT NULL,
		status       TEXT NOT NULL,
		first_seen   TEXT NOT NULL,
		last_changed TEXT NOT NULL
	)`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MarkSeen records the stream. isNew is true when the stream was unknown or
// its status changed since it was last recorded, e.g. upcoming to live.
func (s *Store) MarkSeen(ctx context.Context, st youtube.Stream) (isNew bool, err error) {
	now := s.now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO seen_streams (video_id, channel_id, title, status, first_seen, last_changed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			status = excluded.status,
			title = excluded.title,
			last_changed = excluded.last_changed
		WHERE seen_streams.status != excluded.status`,
		string(st.ID), string(st.Author.ChannelID), st.Title, st.Status.String(), now, now)
	if err != nil {
		return false, fmt.Errorf("store: mark %s: %w", st.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: mark %s: %w", st.ID, err)
	}
	return n > 0, nil
}

// Seen returns the last recorded status of a stream. ok is false for
// streams never recorded.
func (s *Store) Seen(ctx context.Context, id youtube.VideoID) (status youtube.StreamStatus, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM seen_streams WHERE video_id = ?`, string(id)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: lookup %s: %w", id, err)
	}
	status, err = youtube.ParseStreamStatus(raw)
	if err != nil {
		return 0, false, fmt.Errorf("store: lookup %s: %w", id, err)
	}
	return status, true, nil
}

// Count returns how many streams of the channel have been recorded.
func (s *Store) Count(ctx context.Context, channelID youtube.ChannelID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_streams WHERE channel_id = ?`, string(channelID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count %s: %w", channelID, err)
	}
	return n, nil
}
