package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque identifiers, used for request correlation.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns a generator of hex ids built from size random
// bytes. A non-positive size falls back to 16.
func NewRandomGenerator(size int) *RandomGenerator {
	if size <= 0 {
		size = 16
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
