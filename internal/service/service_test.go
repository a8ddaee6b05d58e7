package service

import (
	"io"
	"log/slog"
	"testing"

	"slice-url/internal/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequenceGenerator hands out ids in order and repeats the last one.
type sequenceGenerator struct {
	ids []string
	n   int
}

func (g *sequenceGenerator) Generate() string {
	id := g.ids[min(g.n, len(g.ids)-1)]
	g.n++
	return id
}

func assertKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperr.KindOf(err); got != want {
		t.Fatalf("error kind = %s, want %s (err: %v)", got, want, err)
	}
}
