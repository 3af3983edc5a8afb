package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"newsdeck/internal/domain"
)

func (d *Database) CreateSource(ctx context.Context, src domain.Source) error {
	src.SiteURL = strings.TrimSpace(src.SiteURL)
	if src.SiteURL == "" {
		return errors.New("source site URL is empty")
	}

	src.Name = strings.TrimSpace(src.Name)
	if src.Name == "" {
		src.Name = src.SiteURL
	}

	query := `insert into sources
	(id, user_id, name, site_url, feed_url, category, is_active, created_at, updated_at)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		src.ID, src.UserID, src.Name, src.SiteURL, src.FeedURL,
		src.Category, src.Active, src.CreatedAt, src.UpdatedAt)

	return err
}

func (d *Database) GetSource(ctx context.Context, userID, sourceID string) (*domain.Source, error) {
	query := `select id, user_id, name, site_url, feed_url, category, is_active, created_at, updated_at
	from sources
	where user_id = ? and id = ?`

	var src domain.Source
	err := d.db.QueryRowContext(ctx, query, userID, sourceID).Scan(
		&src.ID, &src.UserID, &src.Name, &src.SiteURL, &src.FeedURL,
		&src.Category, &src.Active, &src.CreatedAt, &src.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &src, nil
}

func (d *Database) ListSources(ctx context.Context, userID string) ([]domain.Source, error) {
	query := `select id, user_id, name, site_url, feed_url, category, is_active, created_at, updated_at
	from sources
	where user_id = ?
	order by created_at`

	return d.querySources(ctx, query, userID)
}

func (d *Database) ListActiveSources(ctx context.Context, userID string) ([]domain.Source, error) {
	query := `select id, user_id, name, site_url, feed_url, category, is_active, created_at, updated_at
	from sources
	where user_id = ? and is_active
	order by created_at`

	return d.querySources(ctx, query, userID)
}

// ListAllActiveSources returns active sources across all users. Used by the
// periodic refresh sweep.
func (d *Database) ListAllActiveSources(ctx context.Context) ([]domain.Source, error) {
	query := `select id, user_id, name, site_url, feed_url, category, is_active, created_at, updated_at
	from sources
	where is_active
	order by user_id, created_at`

	return d.querySources(ctx, query)
}

func (d *Database) DeactivateSource(ctx context.Context, userID, sourceID string) error {
	query := `update sources
	set is_active = false, updated_at = current_timestamp
	where user_id = ? and id = ?`

	res, err := d.db.ExecContext(ctx, query, userID, sourceID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to fetch affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (d *Database) querySources(ctx context.Context, query string, args ...any) ([]domain.Source, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "querySources")
		}
	}()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err = rows.Scan(
			&src.ID, &src.UserID, &src.Name, &src.SiteURL, &src.FeedURL,
			&src.Category, &src.Active, &src.CreatedAt, &src.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		sources = append(sources, src)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return sources, nil
}
