package events

import (
	"context"
	"sync"
)

type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// MemorySequence numbers events per partition for the life of the process.
type MemorySequence struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequence() *MemorySequence {
	return &MemorySequence{last: make(map[string]int64)}
}

// NextSequence increments and returns the next sequence for a partition.
func (s *MemorySequence) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[partitionKey]++
	return s.last[partitionKey], nil
}
