package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsdeck/internal/domain"
)

// CreateArticle persists a new article. It reports false without error when
// the per-user fingerprint unique index rejects the row, so a concurrent
// refresh that won the race is treated as a duplicate rather than a failure.
func (d *Database) CreateArticle(ctx context.Context, a domain.Article) (bool, error) {
	query := `insert or ignore into articles
	(id, user_id, source_id, title, description, content, url, image_url,
	 category, is_bookmarked, is_read, fingerprint, published_at, created_at)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.SourceID, a.Title, a.Description, a.Content,
		a.URL, a.ImageURL, a.Category, a.Bookmarked, a.Read,
		a.Fingerprint, a.PublishedAt, a.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to execute query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to fetch affected rows: %w", err)
	}

	return affected > 0, nil
}

func (d *Database) HasFingerprint(ctx context.Context, userID, fingerprint string) (bool, error) {
	query := "select exists (select 1 from articles where user_id = ? and fingerprint = ?)"

	var exists bool
	if err := d.db.QueryRowContext(ctx, query, userID, fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to scan row: %w", err)
	}

	return exists, nil
}

func (d *Database) GetArticle(ctx context.Context, userID, articleID string) (*domain.Article, error) {
	query := `select id, user_id, source_id, title, description, content, url, image_url,
	category, is_bookmarked, is_read, fingerprint, published_at, created_at
	from articles
	where user_id = ? and id = ?`

	var a domain.Article
	err := d.db.QueryRowContext(ctx, query, userID, articleID).Scan(
		&a.ID, &a.UserID, &a.SourceID, &a.Title, &a.Description, &a.Content,
		&a.URL, &a.ImageURL, &a.Category, &a.Bookmarked, &a.Read,
		&a.Fingerprint, &a.PublishedAt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &a, nil
}

// ListArticles returns the user's newest articles, optionally filtered by
// category. An empty category matches everything.
func (d *Database) ListArticles(ctx context.Context, userID, category string, limit int) ([]domain.Article, error) {
	query := `select id, user_id, source_id, title, description, content, url, image_url,
	category, is_bookmarked, is_read, fingerprint, published_at, created_at
	from articles
	where user_id = ? and (? = '' or category = ?)
	order by created_at desc, id
	limit ?`

	rows, err := d.db.QueryContext(ctx, query, userID, category, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"userID", userID,
				"operation", "ListArticles")
		}
	}()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err = rows.Scan(
			&a.ID, &a.UserID, &a.SourceID, &a.Title, &a.Description, &a.Content,
			&a.URL, &a.ImageURL, &a.Category, &a.Bookmarked, &a.Read,
			&a.Fingerprint, &a.PublishedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		articles = append(articles, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return articles, nil
}

func (d *Database) ToggleBookmark(ctx context.Context, userID, articleID string) error {
	query := `update articles
	set is_bookmarked = not is_bookmarked
	where user_id = ? and id = ?`

	return d.updateArticleFlag(ctx, query, userID, articleID)
}

func (d *Database) MarkRead(ctx context.Context, userID, articleID string) error {
	query := `update articles
	set is_read = true
	where user_id = ? and id = ?`

	return d.updateArticleFlag(ctx, query, userID, articleID)
}

func (d *Database) updateArticleFlag(ctx context.Context, query, userID, articleID string) error {
	res, err := d.db.ExecContext(ctx, query, userID, articleID)
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
