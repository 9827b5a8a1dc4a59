// Package id creates opaque identifiers for newly persisted records.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Generator creates unique IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces IDs with a millisecond timestamp prefix and a
// random suffix, so freshly inserted rows stay roughly index-ordered.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [10]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 16)
	return ts + hex.EncodeToString(buf[:]), nil
}
