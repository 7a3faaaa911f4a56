package generator

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces a new value of type T on each call.
// It is used to give every menu action a run ID for its log lines.
type Generator[T any] interface {
	Next() (T, error)
}

// UUIDV4Generator produces random UUIDv4 strings.
type UUIDV4Generator struct{}

func (g *UUIDV4Generator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ Generator[string] = &UUIDV4Generator{}

// SequenceGenerator produces "<Prefix>-1", "<Prefix>-2", ... and is safe for
// concurrent use. Useful where run IDs must be predictable.
type SequenceGenerator struct {
	Prefix  string
	counter atomic.Uint64
}

func (g *SequenceGenerator) Next() (string, error) {
	return fmt.Sprintf("%s-%d", g.Prefix, g.counter.Add(1)), nil
}

var _ Generator[string] = &SequenceGenerator{}
