package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"slice-url/internal/entities"
)

const linkColumns = `id, short_id, COALESCE(alias, ''), original_url, short_url, creator, clicks, created_at`

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new PostgreSQL link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*entities.Link, error) {
	var link entities.Link
	err := row.Scan(
		&link.ID,
		&link.ShortID,
		&link.Alias,
		&link.OriginalURL,
		&link.ShortURL,
		&link.Creator,
		&link.Clicks,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	link.ClickedAt = []entities.ClickEvent{}
	return &link, nil
}

// registerCode claims code in the shared short id / alias namespace.
func registerCode(ctx context.Context, tx *sql.Tx, code string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO link_codes (code) VALUES ($1)`, code)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to register code: %w", err)
	}
	return nil
}

// Create inserts a new link and registers its short id
func (r *linkRepository) Create(ctx context.Context, link *entities.Link) (*entities.Link, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := registerCode(ctx, tx, link.ShortID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO links (short_id, original_url, short_url, creator)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + linkColumns

	created, err := scanLink(tx.QueryRowContext(ctx, query,
		link.ShortID, link.OriginalURL, link.ShortURL, link.Creator))
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit link: %w", err)
	}
	return created, nil
}

// FindByShortID finds a link by its short id, including its click history
func (r *linkRepository) FindByShortID(ctx context.Context, shortID string) (*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_id = $1`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	if err := r.loadClicks(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// CodeExists reports whether code is already used as a short id or an alias
func (r *linkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM link_codes WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return exists, nil
}

// ListByCreator retrieves all links of a creator in insertion order
func (r *linkRepository) ListByCreator(ctx context.Context, creator string) ([]*entities.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE creator = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	links := []*entities.Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	if err := r.loadClicks(ctx, links...); err != nil {
		return nil, err
	}
	return links, nil
}

// Delete removes a link and releases its codes
func (r *linkRepository) Delete(ctx context.Context, shortID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var alias string
	err = tx.QueryRowContext(ctx,
		`DELETE FROM links WHERE short_id = $1 RETURNING COALESCE(alias, '')`, shortID).Scan(&alias)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	codes := []string{shortID}
	if alias != "" {
		codes = append(codes, alias)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM link_codes WHERE code = ANY($1)`, pq.Array(codes)); err != nil {
		return fmt.Errorf("failed to release codes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// SetAlias registers alias for the link and releases the alias it replaces
func (r *linkRepository) SetAlias(ctx context.Context, shortID, alias, shortURL string) (*entities.Link, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(alias, '') FROM links WHERE short_id = $1 FOR UPDATE`, shortID).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock link: %w", err)
	}

	if err := registerCode(ctx, tx, alias); err != nil {
		return nil, err
	}

	query := `
		UPDATE links
		SET alias = $2, short_url = $3
		WHERE short_id = $1
		RETURNING ` + linkColumns

	link, err := scanLink(tx.QueryRowContext(ctx, query, shortID, alias, shortURL))
	if err != nil {
		return nil, fmt.Errorf("failed to update alias: %w", err)
	}

	if previous != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM link_codes WHERE code = $1`, previous); err != nil {
			return nil, fmt.Errorf("failed to release previous alias: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit alias: %w", err)
	}

	if err := r.loadClicks(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// RecordClick increments the click count and logs the click in one transaction
func (r *linkRepository) RecordClick(ctx context.Context, code string, click entities.ClickEvent) (*entities.Link, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE links
		SET clicks = clicks + 1
		WHERE short_id = $1 OR alias = $1
		RETURNING ` + linkColumns

	link, err := scanLink(tx.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment click count: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO link_clicks (link_id, clicked_at, user_agent, source)
		VALUES ($1, $2, $3, $4)
	`, link.ID, click.Time.UTC(), click.UserAgent, click.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to log click: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit click: %w", err)
	}
	return link, nil
}

// loadClicks fills the click history of links with a single query
func (r *linkRepository) loadClicks(ctx context.Context, links ...*entities.Link) error {
	if len(links) == 0 {
		return nil
	}

	ids := make([]string, len(links))
	byID := make(map[string]*entities.Link, len(links))
	for i, link := range links {
		ids[i] = link.ID
		byID[link.ID] = link
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT link_id, clicked_at, user_agent, source
		FROM link_clicks
		WHERE link_id = ANY($1::uuid[])
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get clicks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var linkID string
		var click entities.ClickEvent
		if err := rows.Scan(&linkID, &click.Time, &click.UserAgent, &click.Source); err != nil {
			return fmt.Errorf("failed to scan click: %w", err)
		}
		if link, ok := byID[linkID]; ok {
			link.ClickedAt = append(link.ClickedAt, click)
		}
	}
	return rows.Err()
}

// isUniqueViolation reports a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isInvalidText reports a PostgreSQL invalid_text_representation (22P02), e.g. a malformed uuid.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
