// Package access guards the builder behind a shared PIN and issues
// session tokens that live until the process restarts.
package access

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrAccessDenied = errors.New("access: denied")

// SecretSource returns the configured PIN.
type SecretSource interface {
	AccessSecret(ctx context.Context) (string, error)
}

type Gate struct {
	source SecretSource

	mu       sync.RWMutex
	sessions map[string]struct{}
}

func NewGate(source SecretSource) *Gate {
	return &Gate{source: source, sessions: map[string]struct{}{}}
}

// Verify compares pin with the stored secret, exactly and case
// sensitively. Any failure, including an unreadable or empty secret,
// is ErrAccessDenied.
func (g *Gate) Verify(ctx context.Context, pin string) (string, error) {
	secret, err := g.source.AccessSecret(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	if secret == "" || subtle.ConstantTimeCompare([]byte(pin), []byte(secret)) != 1 {
		return "", ErrAccessDenied
	}

	token := uuid.NewString()
	g.mu.Lock()
	g.sessions[token] = struct{}{}
	g.mu.Unlock()
	return token, nil
}

func (g *Gate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.sessions[token]
	return ok
}

func (g *Gate) Revoke(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// StaticSecret serves a fixed PIN, used when no remote store is configured.
type StaticSecret string

func (s StaticSecret) AccessSecret(context.Context) (string, error) { return string(s), nil }
