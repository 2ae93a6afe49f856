package project

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for tasks and sections.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

// NewID implements IDGenerator.
func (f IDFunc) NewID() string {
	return f()
}

// RandomIDs returns a generator of short random IDs (8 hex characters).
func RandomIDs() IDGenerator {
	return IDFunc(func() string {
		return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	})
}

// SequentialIDs returns a generator producing "<prefix>-001", "<prefix>-002", ...
// It is safe for concurrent use.
func SequentialIDs(prefix string) IDGenerator {
	return &sequentialIDs{prefix: prefix}
}

type sequentialIDs struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

func (s *sequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return fmt.Sprintf("%s-%03d", s.prefix, s.counter)
}
