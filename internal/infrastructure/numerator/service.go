// Package numerator provides the in-memory implementation of reference numbering.
// This is the infrastructure layer - it implements core/numerator.Generator interface.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	corenumerator "bizdesk/internal/core/numerator"
)

// Service hands out sequential numbers per sequence key.
// Sequences live for the lifetime of the process.
type Service struct {
	mu       sync.Mutex
	counters map[string]int64
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates an empty numerator.
func New() *Service {
	return &Service{counters: make(map[string]int64)}
}

// GetNextNumber implements corenumerator.Generator.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	if cfg.Prefix == "" {
		return "", fmt.Errorf("numerator: empty prefix")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := cfg.Key(period)

	s.mu.Lock()
	s.counters[key]++
	value := s.counters[key]
	s.mu.Unlock()

	return cfg.Format(value, period), nil
}

// SetNextNumber implements corenumerator.Generator.
// Sequences only move forward so numbers already issued are never reused.
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	if value < 1 {
		return fmt.Errorf("numerator: next value must be positive, got %d", value)
	}
	key := cfg.Key(period)

	s.mu.Lock()
	defer s.mu.Unlock()

	if current := s.counters[key]; value-1 < current {
		return fmt.Errorf("numerator: sequence %s already at %d", key, current)
	}
	s.counters[key] = value - 1
	return nil
}
