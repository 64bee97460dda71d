// Package shortlink maps recipe identifiers to compact base62 codes and back.
package shortlink

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(len(Alphabet))

var (
	ErrInvalidCharacter = errors.New("invalid short link character")
	ErrOverflow         = errors.New("short link value out of range")
)

// Encode returns the base62 representation of n, most significant digit
// first. Encode(0) is "0".
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}

	var buf [11]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode parses a base62 code produced by Encode. The empty string decodes
// to 0.
func Decode(code string) (uint64, error) {
	if code == "" {
		return 0, nil
	}

	var n uint64
	for i, r := range code {
		digit := strings.IndexRune(Alphabet, r)
		if digit < 0 {
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, r, i)
		}
		if n > (math.MaxUint64-uint64(digit))/base {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, code)
		}
		n = n*base + uint64(digit)
	}
	return n, nil
}

// Builder turns recipe ids into absolute short URLs served under /r/.
type Builder struct {
	baseURL string
}

func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *Builder) Link(id uint) string {
	return fmt.Sprintf("%s/r/%s/", b.baseURL, Encode(uint64(id)))
}
