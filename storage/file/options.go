package file

import (
	"log/slog"
	"time"
)

type Option func(s *Store)

// WithLogger specifies the logger for the store
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithArchiveDir overrides the archive directory location
func WithArchiveDir(dir string) Option {
	return func(s *Store) {
		s.archiveDir = dir
	}
}

// WithClock overrides the time source for archive timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
