// Package gameid generates short human-shareable join codes for games.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Crockford's base32 alphabet: no i, l, o or u, so codes survive being
// read aloud or typed from a phone screen.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in a join code.
const Length = 6

// RandSource interface for dependency injection of randomness.
type RandSource interface {
	Intn(n int) int
}

// Generator produces join codes with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource selects crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new join code using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new join code using the generator's RandSource.
func (g *Generator) Generate() string {
	code := make([]byte, Length)
	if g.randSource != nil {
		for i := range code {
			code[i] = alphabet[g.randSource.Intn(len(alphabet))]
		}
		return string(code)
	}

	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	for i, b := range buf {
		code[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(code)
}

// Normalize maps user input onto the code alphabet: lowercased, spaces
// trimmed, and the characters Crockford's encoding treats as aliases
// (o→0, i/l→1) folded in.
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.Map(func(r rune) rune {
		switch r {
		case 'o':
			return '0'
		case 'i', 'l':
			return '1'
		}
		return r
	}, id)
}

// Validate checks that a join code has the right length and alphabet.
// Callers should Normalize user input first.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("join code must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
