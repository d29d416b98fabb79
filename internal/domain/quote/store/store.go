// Package store owns the quote being edited. Every mutation recomputes
// totals, notifies subscribers and schedules a debounced draft write.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/domain/quote/local"
)

const DefaultDebounce = time.Second

type DraftStore interface {
	Save(ctx context.Context, q quote.Quote) error
	Load(ctx context.Context) (quote.Quote, error)
	Clear(ctx context.Context) error
}

type CounterReader interface {
	Current(ctx context.Context) (int64, error)
}

type Deps struct {
	Drafts   DraftStore
	Counter  CounterReader
	Defaults quote.Defaults
	Debounce time.Duration
	Now      func() time.Time
	Logger   *zap.Logger
}

// Snapshot is an immutable view of the quote with its totals.
type Snapshot struct {
	Quote  quote.Quote  `json:"quote"`
	Totals quote.Totals `json:"totals"`
}

type Store struct {
	drafts   DraftStore
	counter  CounterReader
	defaults quote.Defaults
	now      func() time.Time
	log      *zap.Logger
	saver    *debouncer

	mu      sync.Mutex
	current quote.Quote

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New returns an empty store. Callers start it with RestoreDraft or NewQuote.
func New(d Deps) *Store {
	s := &Store{
		drafts:   d.Drafts,
		counter:  d.Counter,
		defaults: d.Defaults,
		now:      d.Now,
		log:      d.Logger,
		subs:     map[int]func(Snapshot){},
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	delay := d.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s.saver = newDebouncer(delay, s.writeDraft)
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.current)
}

func snapshotOf(q quote.Quote) Snapshot {
	q = q.Clone()
	return Snapshot{Quote: q, Totals: q.Totals()}
}

// Subscribe registers fn to receive a snapshot after every change and
// returns a function that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) AddItem(kind quote.Kind) (quote.LineItem, error) {
	var added quote.LineItem
	_, err := s.mutate(func(q *quote.Quote) error {
		added = q.AddItem(kind)
		return nil
	})
	return added, err
}

func (s *Store) RemoveItem(id string) (Snapshot, error) {
	return s.mutate(func(q *quote.Quote) error { return q.RemoveItem(id) })
}

func (s *Store) UpdateItem(id, field, value string) (Snapshot, error) {
	return s.mutate(func(q *quote.Quote) error { return q.UpdateItem(id, field, value) })
}

func (s *Store) SetField(path, value string) (Snapshot, error) {
	return s.mutate(func(q *quote.Quote) error { return q.SetField(path, value) })
}

// NewQuote discards the current quote and starts a fresh one numbered
// from the counter.
func (s *Store) NewQuote(ctx context.Context) (Snapshot, error) {
	q, err := s.fresh(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := s.replace(q)
	s.saver.Trigger()
	return snap, nil
}

// DuplicateQuote keeps the content of the current quote under a new
// number and today's date.
func (s *Store) DuplicateQuote(ctx context.Context) (Snapshot, error) {
	number, err := s.mintNumber(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return s.mutate(func(q *quote.Quote) error {
		q.Number = number
		q.IssueDate = quote.DateOf(s.now())
		return nil
	})
}

// Load replaces the whole quote, e.g. with one fetched from the remote store.
func (s *Store) Load(q quote.Quote) Snapshot {
	snap := s.replace(q.Clone())
	s.saver.Trigger()
	return snap
}

// RestoreDraft loads the saved draft, or starts a new quote when there is
// none or it cannot be read.
func (s *Store) RestoreDraft(ctx context.Context) (Snapshot, error) {
	q, err := s.drafts.Load(ctx)
	if err == nil {
		return s.replace(q), nil
	}
	if !errors.Is(err, local.ErrNoDraft) {
		s.log.Warn("store: draft unreadable, starting new quote", zap.Error(err))
	}
	fresh, ferr := s.fresh(ctx)
	if ferr != nil {
		return Snapshot{}, ferr
	}
	return s.replace(fresh), nil
}

// ClearDraft drops the saved draft and any pending write, then starts a
// new quote.
func (s *Store) ClearDraft(ctx context.Context) (Snapshot, error) {
	s.saver.Cancel()
	if err := s.drafts.Clear(ctx); err != nil {
		return Snapshot{}, err
	}
	q, err := s.fresh(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return s.replace(q), nil
}

// DraftPending reports whether a draft write is scheduled.
func (s *Store) DraftPending() bool { return s.saver.Pending() }

// Close writes a pending draft immediately.
func (s *Store) Close(ctx context.Context) error {
	s.saver.Flush(ctx)
	return nil
}

func (s *Store) mutate(fn func(q *quote.Quote) error) (Snapshot, error) {
	s.mu.Lock()
	next := s.current.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.current = next
	snap := snapshotOf(next)
	s.mu.Unlock()

	s.notify(snap)
	s.saver.Trigger()
	return snap, nil
}

func (s *Store) replace(q quote.Quote) Snapshot {
	s.mu.Lock()
	s.current = q
	snap := snapshotOf(q)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) fresh(ctx context.Context) (quote.Quote, error) {
	number, err := s.mintNumber(ctx)
	if err != nil {
		return quote.Quote{}, err
	}
	return quote.New(number, s.now(), s.defaults), nil
}

func (s *Store) mintNumber(ctx context.Context) (string, error) {
	n, err := s.counter.Current(ctx)
	if err != nil {
		return "", err
	}
	return quote.NextNumber(s.defaults.NumberPrefix, s.now(), n), nil
}

func (s *Store) writeDraft(ctx context.Context) {
	snap := s.Snapshot()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.drafts.Save(ctx, snap.Quote); err != nil {
		s.log.Error("store: draft write failed", zap.Error(err))
	}
}
