// Package dashboard ties the memoized dataset to the three panels. A Session
// owns the load cache for its lifetime; Render is a pure function of the
// dataset and the current selection, recomputed on every interaction.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"co2dash/pkg/dataset"
)

// Options configure a session.
type Options struct {
	Path     string
	Encoding string
	// Aliases rename normalized source columns before canonical mapping.
	Aliases map[string]string
	Logger  *slog.Logger
}

// Session is one run of the dashboard. Datasets loaded through it are read
// at most once and kept until Close.
type Session struct {
	ID      uuid.UUID
	Started time.Time

	path     string
	encoding string
	cache    *dataset.Cache
	log      *slog.Logger
}

func Open(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var loadOpts []dataset.Option
	if len(opts.Aliases) > 0 {
		loadOpts = append(loadOpts, dataset.WithAliases(opts.Aliases))
	}
	s := &Session{
		ID:       uuid.New(),
		Started:  time.Now(),
		path:     opts.Path,
		encoding: dataset.EncodingName(opts.Encoding),
		cache:    dataset.NewCache(loadOpts...),
	}
	s.log = log.With("session", s.ID.String())
	s.log.Info("session opened", "path", s.path, "encoding", s.encoding)
	return s
}

// Dataset returns the session's dataset, loading it on first use.
func (s *Session) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := s.cache.Load(ctx, s.path, s.encoding)
	if err != nil {
		s.log.Error("dataset load failed", "path", s.path, "err", err)
		return nil, err
	}
	return ds, nil
}

func (s *Session) Loads() int64 { return s.cache.Loads() }

func (s *Session) Logger() *slog.Logger { return s.log }

// Close ends the session and releases the memoized datasets.
func (s *Session) Close() {
	s.cache.Reset()
	s.log.Info("session closed", "uptime", time.Since(s.Started).Round(time.Millisecond), "loads", s.cache.Loads())
}
