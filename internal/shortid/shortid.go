// Package shortid generates the 7-character codes that identify short links.
//
// A code is the base-36 unix-millisecond timestamp followed by a two character random
// suffix, trimmed to its last seven characters. Codes are only statistically unique;
// callers must rely on the link store's uniqueness constraint and retry on collision.
package shortid

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Length is the length of every generated code.
const Length = 7

const (
	suffixLength = 2
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator produces short codes from a clock and a random source.
type Generator struct {
	now  func() time.Time
	intN func(n int) int
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom overrides the random source. intN must return a value in [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(g *Generator) { g.intN = intN }
}

// New creates a Generator using the wall clock and math/rand/v2 unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:  time.Now,
		intN: rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new code of exactly Length characters.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(g.now().UnixMilli(), 36))
	for i := 0; i < suffixLength; i++ {
		b.WriteByte(alphabet[g.intN(len(alphabet))])
	}

	code := b.String()
	if len(code) > Length {
		return code[len(code)-Length:]
	}
	return strings.Repeat("0", Length-len(code)) + code
}
