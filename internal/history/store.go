// Package history owns the exercise history: an in-memory, date-ordered
// collection of exercise days that is written through to a history file on
// every change.
//
// The collection holds at most one ExerciseDay per local calendar day and is
// kept in descending date order, most recent day first.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/scbrown/hiitfit/internal/codec"
	"github.com/scbrown/hiitfit/internal/metrics"
	"github.com/scbrown/hiitfit/internal/model"
	"github.com/sirupsen/logrus"
)

var (
	// ErrLoadFailure means a history file exists but could not be read.
	ErrLoadFailure = errors.New("history load failed")
	// ErrSaveFailure means the history could not be encoded or written.
	ErrSaveFailure = errors.New("history save failed")
	// ErrDayNotFound is returned when no day has the requested ID.
	ErrDayNotFound = errors.New("exercise day not found")
	// ErrEmptyExercise is returned when recording a blank exercise name.
	ErrEmptyExercise = errors.New("exercise name must be non-empty")
	// ErrInvalidExercise is returned when an exercise name is not valid UTF-8.
	ErrInvalidExercise = errors.New("exercise name must be valid UTF-8")
)

// Store is the sole owner of the exercise history. It is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	days    []model.ExerciseDay
	broken  bool
	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics makes the store report record and persistence metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New returns an empty store backed by the file at path. Nothing is read
// until Load is called.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		s.log = l
	}
	return s
}

// Open creates a store and loads the history file. A file that cannot be
// read leaves the store empty and marks persistence as broken; Open itself
// never fails.
func Open(path string, opts ...Option) *Store {
	s := New(path, opts...)
	if err := s.Load(); err != nil {
		s.log.WithError(err).WithField("path", path).Warn("starting with empty history")
	}
	return s
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Broken reports whether loading the history file failed. The flag is
// sticky: once set it stays set for the life of the store.
func (s *Store) Broken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broken
}

// Load replaces the in-memory history with the contents of the history
// file. A missing file yields an empty history and no error. Any other
// failure returns an error wrapping ErrLoadFailure, empties the history and
// sets the broken flag.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = nil
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.WithField("path", s.path).Debug("no history file yet")
		s.updateGauges()
		return nil
	}
	if err != nil {
		return s.loadFailed(fmt.Errorf("%w: read %s: %w", ErrLoadFailure, s.path, err))
	}

	days, err := codec.Unmarshal(data)
	if err != nil {
		return s.loadFailed(fmt.Errorf("%w: decode %s: %w", ErrLoadFailure, s.path, err))
	}
	s.days = days
	s.log.WithField("days", len(days)).Debug("history loaded")
	s.updateGauges()
	return nil
}

func (s *Store) loadFailed(err error) error {
	s.broken = true
	s.updateGauges()
	return err
}

// Save writes the whole history to the history file. The file is replaced
// atomically, so readers see either the old or the new contents.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	err := s.write()
	if err != nil {
		if s.metrics != nil {
			s.metrics.SaveFailures.Inc()
		}
		s.log.WithError(err).Error("saving history")
		return err
	}
	s.updateGauges()
	return nil
}

func (s *Store) write() error {
	data, err := codec.Marshal(s.days)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrSaveFailure, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", ErrSaveFailure, err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrSaveFailure, s.path, err)
	}
	return nil
}

// mutate applies fn and persists the result. If saving fails the history is
// restored to its state before fn ran.
func (s *Store) mutate(fn func()) error {
	snapshot := model.CloneDays(s.days)
	fn()
	if err := s.save(); err != nil {
		s.days = snapshot
		return err
	}
	return nil
}

func (s *Store) updateGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.Days.Set(float64(len(s.days)))
	if s.broken {
		s.metrics.PersistenceBroken.Set(1)
	} else {
		s.metrics.PersistenceBroken.Set(0)
	}
}

// AllDays returns a copy of the history, most recent day first.
func (s *Store) AllDays() []model.ExerciseDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneDays(s.days)
}

// Len returns the number of days in the history.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.days)
}

// Day returns the day with the given ID.
func (s *Store) Day(id string) (model.ExerciseDay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.days {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return model.ExerciseDay{}, false
}
