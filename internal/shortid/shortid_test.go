package shortid

import (
	"regexp"
	"testing"
	"time"
)

var codePattern = regexp.MustCompile(`^[0-9a-z]{7}$`)

func TestGenerateLength(t *testing.T) {
	g := New()
	for i := 0; i < 1000; i++ {
		code := g.Generate()
		if !codePattern.MatchString(code) {
			t.Fatalf("Generate() = %q, want 7 lowercase base-36 characters", code)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	at := time.UnixMilli(1700000000000) // "loyw3v28" in base 36
	seq := []int{10, 35}
	g := New(
		WithClock(func() time.Time { return at }),
		WithRandom(func(n int) int {
			v := seq[0]
			seq = seq[1:]
			return v
		}),
	)

	// "loyw3v28" + "az" keeps the last seven characters.
	if got, want := g.Generate(), "w3v28az"; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGeneratePadsShortTimestamps(t *testing.T) {
	g := New(
		WithClock(func() time.Time { return time.UnixMilli(35) }),
		WithRandom(func(int) int { return 1 }),
	)

	// 35 ms is "z" in base 36, followed by "11".
	if got, want := g.Generate(), "0000z11"; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerateVariesWithinSameMillisecond(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	g := New(WithClock(func() time.Time { return at }))

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		seen[g.Generate()] = struct{}{}
	}
	if len(seen) < 2 {
		t.Errorf("expected random suffix to vary, got %d distinct codes", len(seen))
	}
}
