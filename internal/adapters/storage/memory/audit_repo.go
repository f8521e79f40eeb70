package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"sintrom-ocr/internal/domain/audit"
)

// maxAuditEntries acota la memoria: se descartan las más antiguas.
const maxAuditEntries = 1000

type auditRepo struct {
	mu    sync.RWMutex
	items []audit.Entry
	ids   map[string]struct{}
}

func NewAuditRepo() audit.Repository {
	return &auditRepo{
		ids: make(map[string]struct{}),
	}
}

func (r *auditRepo) Create(ctx context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("audit entry id required")
	}
	if _, exists := r.ids[e.ID]; exists {
		return errors.New("audit entry already exists")
	}

	r.items = append(r.items, e)
	r.ids[e.ID] = struct{}{}

	if over := len(r.items) - maxAuditEntries; over > 0 {
		for _, old := range r.items[:over] {
			delete(r.ids, old.ID)
		}
		r.items = append([]audit.Entry(nil), r.items[over:]...)
	}
	return nil
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = audit.DefaultLimit
	}

	// orden inverso de inserción: a igual fecha sale primero la última
	out := make([]audit.Entry, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
