// Package gateway saves quotes to the remote store and reads them back.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tomatocr/cotizador/internal/domain/quote"
)

const MaxRecent = 20

var ErrNotFound = errors.New("gateway: quote not found")

type Repository interface {
	Upsert(ctx context.Context, r Record) error
	ListRecent(ctx context.Context, limit int) ([]Summary, error)
	Get(ctx context.Context, id string) (Record, error)
}

// Counter is advanced after every successful save.
type Counter interface {
	Increment(ctx context.Context) (int64, error)
}

// RemoteError carries the remote store's own message.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return e.Err.Error() }
func (e *RemoteError) Unwrap() error { return e.Err }

type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// SaveStatus describes the most recent save attempt.
type SaveStatus struct {
	State       State      `json:"state"`
	Message     string     `json:"message,omitempty"`
	QuoteNumber string     `json:"quoteNumber,omitempty"`
	At          *time.Time `json:"at,omitempty"`
}

type Service struct {
	repo     Repository
	counter  Counter
	defaults quote.Defaults
	log      *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	status SaveStatus
	recent []Summary
}

func NewService(repo Repository, counter Counter, defaults quote.Defaults, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		counter:  counter,
		defaults: defaults,
		log:      log,
		now:      time.Now,
		status:   SaveStatus{State: StateIdle},
		recent:   []Summary{},
	}
}

// Save upserts q keyed by its number. The caller's quote is not modified.
func (s *Service) Save(ctx context.Context, q quote.Quote) (Record, error) {
	if err := q.Validate(); err != nil {
		return Record{}, err
	}
	rec := NewRecord(q)
	s.setStatus(StatePending, "", q.Number)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		s.setStatus(StateFailed, err.Error(), q.Number)
		s.log.Warn("gateway: save failed", zap.String("quote", q.Number), zap.Error(err))
		return Record{}, &RemoteError{Op: "save", Err: err}
	}
	s.setStatus(StateSucceeded, "", q.Number)

	if _, err := s.counter.Increment(ctx); err != nil {
		s.log.Error("gateway: counter increment failed", zap.Error(err))
	}
	s.ListRecent(ctx, MaxRecent)
	return rec, nil
}

// ListRecent returns up to limit quotes, newest first. A read failure is
// logged and yields an empty list; the cached view keeps its last value.
func (s *Service) ListRecent(ctx context.Context, limit int) []Summary {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.log.Warn("gateway: list recent failed", zap.Error(err))
		return []Summary{}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	s.mu.Lock()
	s.recent = append([]Summary(nil), rows...)
	s.mu.Unlock()
	return rows
}

// Recent is the list as of the last successful read.
func (s *Service) Recent() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Summary{}, s.recent...)
}

func (s *Service) LoadByID(ctx context.Context, id string) (quote.Quote, error) {
	rec, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return quote.Quote{}, err
	}
	if err != nil {
		return quote.Quote{}, &RemoteError{Op: "load", Err: err}
	}
	q := rec.ToQuote(s.defaults)
	if err := q.CheckAmounts(); err != nil {
		return quote.Quote{}, fmt.Errorf("quote %s: %w", rec.Number, err)
	}
	return q, nil
}

func (s *Service) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Service) setStatus(state State, msg, number string) {
	at := s.now()
	s.mu.Lock()
	s.status = SaveStatus{State: state, Message: msg, QuoteNumber: number, At: &at}
	s.mu.Unlock()
}
