package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slice-url/internal/entities"
)

func newLink(shortID, creator string) *entities.Link {
	return &entities.Link{
		ShortID:     shortID,
		OriginalURL: "https://example.com/" + shortID,
		ShortURL:    "http://localhost/" + shortID,
		Creator:     creator,
	}
}

func TestMemoryLinkRepository_CreateRejectsTakenCode(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLinkRepository()

	if _, err := repo.Create(ctx, newLink("abcdefg", "u1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(ctx, newLink("abcdefg", "u2")); !errors.Is(err, ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
}

func TestMemoryLinkRepository_AliasSharesNamespace(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLinkRepository()

	for _, id := range []string{"aaaaaaa", "bbbbbbb"} {
		if _, err := repo.Create(ctx, newLink(id, "u1")); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	if _, err := repo.SetAlias(ctx, "aaaaaaa", "bbbbbbb", "x"); !errors.Is(err, ErrConflict) {
		t.Errorf("alias equal to another short id: error = %v, want ErrConflict", err)
	}
	if _, err := repo.SetAlias(ctx, "aaaaaaa", "mine", "http://localhost/mine"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	if _, err := repo.SetAlias(ctx, "bbbbbbb", "mine", "x"); !errors.Is(err, ErrConflict) {
		t.Errorf("alias already used: error = %v, want ErrConflict", err)
	}
	if _, err := repo.SetAlias(ctx, "aaaaaaa", "mine", "x"); !errors.Is(err, ErrConflict) {
		t.Errorf("re-setting own alias: error = %v, want ErrConflict", err)
	}

	// Replacing an alias releases the old one.
	if _, err := repo.SetAlias(ctx, "aaaaaaa", "other", "http://localhost/other"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	if exists, _ := repo.CodeExists(ctx, "mine"); exists {
		t.Error("expected replaced alias to be released")
	}

	// Deleting a link releases both codes.
	if err := repo.Delete(ctx, "aaaaaaa"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	for _, code := range []string{"aaaaaaa", "other"} {
		if exists, _ := repo.CodeExists(ctx, code); exists {
			t.Errorf("expected %q to be released after delete", code)
		}
	}
}

func TestMemoryLinkRepository_RecordClickConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLinkRepository()
	if _, err := repo.Create(ctx, newLink("abcdefg", "u1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.SetAlias(ctx, "abcdefg", "promo", "http://localhost/promo"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := "abcdefg"
			if i%2 == 0 {
				code = "promo"
			}
			if _, err := repo.RecordClick(ctx, code, entities.ClickEvent{Time: time.Now(), Source: "test"}); err != nil {
				t.Errorf("RecordClick() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	link, err := repo.FindByShortID(ctx, "abcdefg")
	if err != nil {
		t.Fatalf("FindByShortID() error = %v", err)
	}
	if link.Clicks != n || len(link.ClickedAt) != n {
		t.Errorf("clicks = %d, len(clickedAt) = %d, want %d", link.Clicks, len(link.ClickedAt), n)
	}
}

func TestMemoryLinkRepository_ConcurrentSetAliasKeepsOneCode(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLinkRepository()
	if _, err := repo.Create(ctx, newLink("abcdefg", "u1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	aliases := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	var wg sync.WaitGroup
	for _, alias := range aliases {
		wg.Add(1)
		go func(alias string) {
			defer wg.Done()
			_, err := repo.SetAlias(ctx, "abcdefg", alias, "http://localhost/"+alias)
			if err != nil && !errors.Is(err, ErrConflict) {
				t.Errorf("SetAlias(%s) error = %v", alias, err)
			}
		}(alias)
	}
	wg.Wait()

	link, err := repo.FindByShortID(ctx, "abcdefg")
	if err != nil {
		t.Fatalf("FindByShortID() error = %v", err)
	}
	// Only the alias the link ends up with may stay registered.
	for _, alias := range aliases {
		exists, _ := repo.CodeExists(ctx, alias)
		if exists != (alias == link.Alias) {
			t.Errorf("CodeExists(%s) = %v with current alias %q", alias, exists, link.Alias)
		}
	}
}

func TestMemoryLinkRepository_RecordClickUnknown(t *testing.T) {
	repo := NewMemoryLinkRepository()
	_, err := repo.RecordClick(context.Background(), "nope", entities.ClickEvent{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordClick() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryLinkRepository_ListByCreatorKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLinkRepository()
	for _, id := range []string{"ccccccc", "aaaaaaa", "bbbbbbb"} {
		if _, err := repo.Create(ctx, newLink(id, "u1")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := repo.Create(ctx, newLink("ddddddd", "u2")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	links, err := repo.ListByCreator(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	want := []string{"ccccccc", "aaaaaaa", "bbbbbbb"}
	if len(links) != len(want) {
		t.Fatalf("got %d links, want %d", len(links), len(want))
	}
	for i, link := range links {
		if link.ShortID != want[i] {
			t.Errorf("links[%d] = %s, want %s", i, link.ShortID, want[i])
		}
	}
}

func TestMemoryUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	alice, err := repo.Create(ctx, &entities.User{Email: "a@example.com", Username: "alice"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(ctx, &entities.User{Email: "a@example.com", Username: "other"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email: error = %v, want ErrConflict", err)
	}
	bob, err := repo.Create(ctx, &entities.User{Email: "b@example.com", Username: "bob"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := repo.UpdateProfile(ctx, bob.ID, "alice", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("UpdateProfile() to a taken username: error = %v, want ErrConflict", err)
	}
	updated, err := repo.UpdateProfile(ctx, alice.ID, "alice", "Alice Doe")
	if err != nil {
		t.Fatalf("UpdateProfile() keeping own username: error = %v", err)
	}
	if updated.FullName != "Alice Doe" {
		t.Errorf("FullName = %q, want %q", updated.FullName, "Alice Doe")
	}
}
