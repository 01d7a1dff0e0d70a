package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"newsportal/internal/models"
)

type HotNewsRepository struct{ db *sql.DB }

func NewHotNewsRepository(db *sql.DB) *HotNewsRepository { return &HotNewsRepository{db: db} }

const hotNewsSelect = `
	SELECT h.id, h.news_id, h.priority, n.title, n.image_url, COALESCE(t.name, ''), n.clicks
	FROM hot_news h
	JOIN news n ON n.id = h.news_id AND n.is_delete = FALSE
	LEFT JOIN tags t ON t.id = n.tag_id
	WHERE h.is_delete = FALSE`

func (r *HotNewsRepository) query(ctx context.Context, q string, args ...interface{}) ([]*models.HotNews, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list hot news: %w", err)
	}
	defer rows.Close()

	var res []*models.HotNews
	for rows.Next() {
		h := &models.HotNews{}
		if err := rows.Scan(&h.ID, &h.NewsID, &h.Priority, &h.Title, &h.ImageURL, &h.TagName, &h.Clicks); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

// List orders by priority, then by clicks.
func (r *HotNewsRepository) List(ctx context.Context, limit, offset int) ([]*models.HotNews, error) {
	return r.query(ctx, hotNewsSelect+` ORDER BY h.priority, n.clicks DESC, h.id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *HotNewsRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM hot_news h JOIN news n ON n.id = h.news_id AND n.is_delete = FALSE
		WHERE h.is_delete = FALSE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count hot news: %w", err)
	}
	return n, nil
}

func (r *HotNewsRepository) GetByID(ctx context.Context, id int) (*models.HotNews, error) {
	res, err := r.query(ctx, hotNewsSelect+` AND h.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, nil
	}
	return res[0], nil
}

// Upsert marks newsID as hot, reviving a previously removed entry.
// It reports whether a new live entry appeared.
func (r *HotNewsRepository) Upsert(ctx context.Context, newsID, priority int) (bool, error) {
	const q = `
		INSERT INTO hot_news (news_id, priority) VALUES ($1, $2)
		ON CONFLICT (news_id) DO UPDATE
			SET priority = EXCLUDED.priority, is_delete = FALSE, update_time = NOW()
			WHERE hot_news.is_delete = TRUE
		RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, q, newsID, priority).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("upsert hot news: %w", err)
	}
	return true, nil
}

func (r *HotNewsRepository) UpdatePriority(ctx context.Context, id, priority int) error {
	const q = `UPDATE hot_news SET priority = $1, update_time = NOW() WHERE id = $2 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, priority, id); err != nil {
		return fmt.Errorf("update hot news: %w", err)
	}
	return nil
}

func (r *HotNewsRepository) SoftDelete(ctx context.Context, id int) error {
	const q = `UPDATE hot_news SET is_delete = TRUE, update_time = NOW() WHERE id = $1 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, id); err != nil {
		return fmt.Errorf("delete hot news: %w", err)
	}
	return nil
}
