package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"slice-url/internal/entities"
)

// compile-time interface checks
var (
	_ LinkRepository  = (*MemoryLinkRepository)(nil)
	_ UserRepository  = (*MemoryUserRepository)(nil)
	_ VisitRepository = (*MemoryVisitRepository)(nil)
)

func cloneLink(l *entities.Link) *entities.Link {
	c := *l
	c.ClickedAt = slices.Clone(l.ClickedAt)
	if c.ClickedAt == nil {
		c.ClickedAt = []entities.ClickEvent{}
	}
	return &c
}

// MemoryLinkRepository keeps links in process memory. Used for tests and STORAGE_DRIVER=memory.
type MemoryLinkRepository struct {
	mu    sync.RWMutex
	links map[string]*entities.Link // by short id
	order []string
	codes map[string]struct{}
}

func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		links: make(map[string]*entities.Link),
		codes: make(map[string]struct{}),
	}
}

func (r *MemoryLinkRepository) Create(_ context.Context, link *entities.Link) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.codes[link.ShortID]; taken {
		return nil, ErrConflict
	}
	r.codes[link.ShortID] = struct{}{}

	stored := &entities.Link{
		ID:          uuid.NewString(),
		ShortID:     link.ShortID,
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		Creator:     link.Creator,
		ClickedAt:   []entities.ClickEvent{},
		CreatedAt:   time.Now().UTC(),
	}
	r.links[stored.ShortID] = stored
	r.order = append(r.order, stored.ShortID)
	return cloneLink(stored), nil
}

func (r *MemoryLinkRepository) FindByShortID(_ context.Context, shortID string) (*entities.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[shortID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLink(link), nil
}

func (r *MemoryLinkRepository) CodeExists(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.codes[code]
	return ok, nil
}

func (r *MemoryLinkRepository) ListByCreator(_ context.Context, creator string) ([]*entities.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := []*entities.Link{}
	for _, shortID := range r.order {
		if link := r.links[shortID]; link.Creator == creator {
			links = append(links, cloneLink(link))
		}
	}
	return links, nil
}

func (r *MemoryLinkRepository) Delete(_ context.Context, shortID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[shortID]
	if !ok {
		return ErrNotFound
	}
	delete(r.links, shortID)
	delete(r.codes, link.ShortID)
	if link.Alias != "" {
		delete(r.codes, link.Alias)
	}
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == shortID })
	return nil
}

func (r *MemoryLinkRepository) SetAlias(_ context.Context, shortID, alias, shortURL string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[shortID]
	if !ok {
		return nil, ErrNotFound
	}
	if _, taken := r.codes[alias]; taken {
		return nil, ErrConflict
	}

	r.codes[alias] = struct{}{}
	if link.Alias != "" {
		delete(r.codes, link.Alias)
	}
	link.Alias = alias
	link.ShortURL = shortURL
	return cloneLink(link), nil
}

func (r *MemoryLinkRepository) RecordClick(_ context.Context, code string, click entities.ClickEvent) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[code]
	if !ok {
		for _, l := range r.links {
			if l.Alias == code {
				link = l
				break
			}
		}
	}
	if link == nil {
		return nil, ErrNotFound
	}

	link.Clicks++
	link.ClickedAt = append(link.ClickedAt, click)

	out := *link
	out.ClickedAt = nil
	return &out, nil
}

// MemoryUserRepository keeps accounts in process memory.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User // by id
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*entities.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, ErrConflict
		}
	}

	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryUserRepository) find(match func(*entities.User) bool) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Email == email || u.Username == username })
}

func (r *MemoryUserRepository) update(id string, apply func(*entities.User) error) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := apply(u); err != nil {
		return nil, err
	}
	out := *u
	return &out, nil
}

func (r *MemoryUserRepository) Confirm(_ context.Context, id string) error {
	_, err := r.update(id, func(u *entities.User) error {
		u.IsAccountConfirmed = true
		u.AccountConfirmationToken = ""
		return nil
	})
	return err
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	_, err := r.update(id, func(u *entities.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
	return err
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id, username, fullName string) (*entities.User, error) {
	return r.update(id, func(u *entities.User) error {
		if username != "" {
			for _, other := range r.users {
				if other.ID != id && other.Username == username {
					return ErrConflict
				}
			}
			u.Username = username
		}
		if fullName != "" {
			u.FullName = fullName
		}
		return nil
	})
}

// MemoryVisitRepository keeps visits in process memory.
type MemoryVisitRepository struct {
	mu     sync.Mutex
	visits []entities.Visit
}

func NewMemoryVisitRepository() *MemoryVisitRepository {
	return &MemoryVisitRepository{}
}

func (r *MemoryVisitRepository) Record(_ context.Context, visit entities.Visit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.visits = append(r.visits, visit)
	return int64(len(r.visits)), nil
}
