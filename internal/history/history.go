// Package history keeps a capped, deduplicated list of viewed product ids
// in a pluggable key-value store.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

const (
	DefaultKey   = "viewHistory"
	DefaultLimit = 20
)

var ErrCorrupt = errors.New("history: stored value is not a list of ids")

// KV is the storage slot the history reads and writes. Values are opaque strings.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// Key returns the slot for a session. The empty session maps to the shared slot.
func Key(session string) string {
	if session == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + session
}

type ViewHistory struct {
	mu    sync.Mutex
	kv    KV
	limit int
}

func New(kv KV, limit int) *ViewHistory {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &ViewHistory{kv: kv, limit: limit}
}

func (h *ViewHistory) Limit() int { return h.limit }

// Save appends productID to the list under key unless it is already there.
// A repeated id keeps its original position. The oldest entries are dropped
// once the list exceeds the limit.
func (h *ViewHistory) Save(ctx context.Context, key, productID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids, err := h.read(ctx, key)
	if err != nil {
		return err
	}
	if lo.Contains(ids, productID) {
		return nil
	}

	ids = append(ids, productID)
	if len(ids) > h.limit {
		ids = ids[len(ids)-h.limit:]
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := h.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("history: write %s: %w", key, err)
	}
	return nil
}

// List returns the stored ids oldest first. A missing slot yields an empty list.
func (h *ViewHistory) List(ctx context.Context, key string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.read(ctx, key)
}

func (h *ViewHistory) Ping(ctx context.Context) error {
	return h.kv.Ping(ctx)
}

func (h *ViewHistory) read(ctx context.Context, key string) ([]string, error) {
	raw, ok, err := h.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("history: read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
