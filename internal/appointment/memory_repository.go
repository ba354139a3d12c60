package appointment

import (
	"context"
	"sync"
)

// MemoryRepository keeps rows in process memory. It backs the "memory"
// store for local runs and the test suites.
type MemoryRepository struct {
	mu   sync.Mutex
	rows []Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ReadAll(ctx context.Context) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Appointment, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *MemoryRepository) Append(ctx context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, a)
	return nil
}

func (r *MemoryRepository) UpdateAt(ctx context.Context, pos int, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pos < 0 || pos >= len(r.rows) {
		return ErrNotFound
	}
	r.rows[pos] = a
	return nil
}
