// Package uuid generates request identifiers.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generators used by NewID; tests replace them to force the fallback path.
var (
	newV7     = uuid.NewV7
	newRandom = uuid.NewRandom
)

// Generator creates time-ordered UUID v7 strings.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUID v7 string, falling back to a random v4 if the
// v7 clock sequence cannot be produced.
func (Generator) NewID() (string, error) {
	id, err := newV7()
	if err == nil {
		return id.String(), nil
	}
	v4, err := newRandom()
	if err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}
	return v4.String(), nil
}
