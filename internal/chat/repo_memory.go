package chat

import (
	"context"
	"sync"
)

// MemoryRepo keeps messages in process memory.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Message // documentId -> messages
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Message)}
}

func (r *MemoryRepo) Append(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(msg); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[msg.DocumentID] = append(r.data[msg.DocumentID], msg)
	return nil
}

func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.data[documentID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
