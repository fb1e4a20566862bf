// Package ids generates identifiers for new domain entities.
package ids

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Generator produces globally unique string identifiers.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// UUID generates random (version 4) UUIDs.
// Reader defaults to crypto/rand when nil.
type UUID struct {
	Reader io.Reader
}

// Generate returns a new UUID string. It fails if ctx is done or the
// randomness source errors.
func (g UUID) Generate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		id  uuid.UUID
		err error
	)
	if g.Reader != nil {
		id, err = uuid.NewRandomFromReader(g.Reader)
	} else {
		id, err = uuid.NewRandom()
	}
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// Sequence yields Prefix-1, Prefix-2, ... in order. Deterministic, for tests
// and demo data.
type Sequence struct {
	Prefix string

	mu sync.Mutex
	n  int
}

// Generate returns the next identifier in the sequence.
func (s *Sequence) Generate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n), nil
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context) (string, error) {
	return f(ctx)
}
