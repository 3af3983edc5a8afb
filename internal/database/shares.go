package database

import (
	"context"
	"fmt"

	"newsdeck/internal/domain"
)

const topSharedArticlesLimit = 10

func (d *Database) CreateShareEvent(ctx context.Context, e domain.ShareEvent) error {
	query := `insert into share_events (id, user_id, article_id, platform, created_at)
	values (?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query, e.ID, e.UserID, e.ArticleID, e.Platform, e.CreatedAt)

	return err
}

func (d *Database) ShareStats(ctx context.Context, userID string) (*domain.ShareStats, error) {
	stats := &domain.ShareStats{}

	query := `select platform, count(*)
	from share_events
	where user_id = ?
	group by platform
	order by count(*) desc, platform`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"userID", userID,
				"operation", "ShareStats")
		}
	}()

	for rows.Next() {
		var pc domain.PlatformShareCount
		if err = rows.Scan(&pc.Platform, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		stats.ByPlatform = append(stats.ByPlatform, pc)
		stats.Total += pc.Count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	topArticles, err := d.topSharedArticles(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TopArticles = topArticles

	return stats, nil
}

func (d *Database) topSharedArticles(ctx context.Context, userID string) ([]domain.ArticleShareCount, error) {
	query := `select e.article_id, a.title, count(*)
	from share_events as e
	join articles as a on a.id = e.article_id
	where e.user_id = ?
	group by e.article_id, a.title
	order by count(*) desc, e.article_id
	limit ?`

	rows, err := d.db.QueryContext(ctx, query, userID, topSharedArticlesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"userID", userID,
				"operation", "topSharedArticles")
		}
	}()

	var counts []domain.ArticleShareCount
	for rows.Next() {
		var ac domain.ArticleShareCount
		if err = rows.Scan(&ac.ArticleID, &ac.Title, &ac.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		counts = append(counts, ac)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return counts, nil
}
