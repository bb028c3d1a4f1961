package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrEmptyToken = errors.New("token must not be blank")

// Holder is the single source of the current TableCRM token. Reads come from
// memory; writes go through to the Store.
type Holder struct {
	mu    sync.RWMutex
	token string
	store Store
}

func NewHolder(store Store) *Holder {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Holder{store: store}
}

// Restore loads a previously saved token. It reports whether one was found.
func (h *Holder) Restore(ctx context.Context) (bool, error) {
	token, err := h.store.Load(ctx)
	if err != nil {
		return false, err
	}
	token = strings.TrimSpace(token)
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	return token != "", nil
}

// Set replaces the token and persists it.
func (h *Holder) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := h.store.Save(ctx, token); err != nil {
		return err
	}
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	return nil
}

// Clear forgets the token in memory and in the store. The in-memory token is
// dropped even when the store fails.
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.token = ""
	h.mu.Unlock()
	return h.store.Clear(ctx)
}

// Token returns the current token and whether one is set.
func (h *Holder) Token() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token, h.token != ""
}

func (h *Holder) Authenticated() bool {
	_, ok := h.Token()
	return ok
}
