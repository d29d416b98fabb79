// Package local keeps the per-installation quote state in a kv store:
// the auto-saved draft, the quote counter and the theme preference.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tomatocr/cotizador/internal/domain/quote"
	"tomatocr/cotizador/internal/infra/kv"
)

const (
	DraftKey   = "tomato_quote_draft_v1"
	CounterKey = "tomato_quote_counter_v1"
	ThemeKey   = "tomato_theme"
)

// ErrNoDraft is returned by Drafts.Load when nothing has been saved yet.
var ErrNoDraft = errors.New("local: no draft saved")

type Drafts struct {
	kv kv.Store
}

func NewDrafts(s kv.Store) *Drafts { return &Drafts{kv: s} }

func (d *Drafts) Save(ctx context.Context, q quote.Quote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return d.kv.Set(ctx, DraftKey, b)
}

func (d *Drafts) Load(ctx context.Context) (quote.Quote, error) {
	b, err := d.kv.Get(ctx, DraftKey)
	if errors.Is(err, kv.ErrNotFound) {
		return quote.Quote{}, ErrNoDraft
	}
	if err != nil {
		return quote.Quote{}, err
	}
	var q quote.Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return quote.Quote{}, fmt.Errorf("decode draft: %w", err)
	}
	if err := q.CheckAmounts(); err != nil {
		return quote.Quote{}, fmt.Errorf("decode draft: %w", err)
	}
	return q, nil
}

func (d *Drafts) Clear(ctx context.Context) error {
	return d.kv.Delete(ctx, DraftKey)
}

// Counter is the last used quote sequence. A missing or unreadable value
// counts as zero.
type Counter struct {
	kv kv.Store
}

func NewCounter(s kv.Store) *Counter { return &Counter{kv: s} }

func (c *Counter) Current(ctx context.Context) (int64, error) {
	b, err := c.kv.Get(ctx, CounterKey)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (c *Counter) Increment(ctx context.Context) (int64, error) {
	n, err := c.Current(ctx)
	if err != nil {
		return 0, err
	}
	n++
	if err := c.kv.Set(ctx, CounterKey, []byte(strconv.FormatInt(n, 10))); err != nil {
		return 0, err
	}
	return n, nil
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("local: invalid theme")

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

type Preferences struct {
	kv kv.Store
}

func NewPreferences(s kv.Store) *Preferences { return &Preferences{kv: s} }

// Theme falls back to light when unset or unrecognised.
func (p *Preferences) Theme(ctx context.Context) (Theme, error) {
	b, err := p.kv.Get(ctx, ThemeKey)
	if errors.Is(err, kv.ErrNotFound) {
		return ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	t, err := ParseTheme(string(b))
	if err != nil {
		return ThemeLight, nil
	}
	return t, nil
}

func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return p.kv.Set(ctx, ThemeKey, []byte(t))
}
