package tasks

import (
	"context"
	"errors"
	"sync"
)

var ErrDuplicateID = errors.New("duplicate task id")

// Repository stores tasks. List returns them in insertion order.
type Repository interface {
	Create(ctx context.Context, t Task) (Task, error)
	List(ctx context.Context) ([]Task, error)
}

type InMemoryRepo struct {
	mu    sync.Mutex
	order []Task
	ids   map[string]struct{}
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		ids: make(map[string]struct{}),
	}
}

func (r *InMemoryRepo) Create(_ context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[t.ID]; ok {
		return Task{}, ErrDuplicateID
	}
	r.ids[t.ID] = struct{}{}
	r.order = append(r.order, t)
	return t, nil
}

func (r *InMemoryRepo) List(_ context.Context) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Task, len(r.order))
	copy(out, r.order)
	return out, nil
}
