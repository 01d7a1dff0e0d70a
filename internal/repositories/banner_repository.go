package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"newsportal/internal/models"
)

type BannerRepository struct{ db *sql.DB }

func NewBannerRepository(db *sql.DB) *BannerRepository { return &BannerRepository{db: db} }

const bannerSelect = `
	SELECT b.id, b.news_id, n.title, b.image_url, b.priority
	FROM banners b JOIN news n ON n.id = b.news_id AND n.is_delete = FALSE
	WHERE b.is_delete = FALSE`

func (r *BannerRepository) query(ctx context.Context, q string, args ...interface{}) ([]*models.Banner, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var res []*models.Banner
	for rows.Next() {
		b := &models.Banner{}
		if err := rows.Scan(&b.ID, &b.NewsID, &b.NewsTitle, &b.ImageURL, &b.Priority); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// List orders by priority; limit <= 0 returns everything.
func (r *BannerRepository) List(ctx context.Context, limit int) ([]*models.Banner, error) {
	q := bannerSelect + ` ORDER BY b.priority, b.update_time DESC, b.id DESC`
	if limit > 0 {
		return r.query(ctx, q+` LIMIT $1`, limit)
	}
	return r.query(ctx, q)
}

func (r *BannerRepository) GetByID(ctx context.Context, id int) (*models.Banner, error) {
	res, err := r.query(ctx, bannerSelect+` AND b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, nil
	}
	return res[0], nil
}

// GetOrCreate returns the banner of newsID, creating or reviving it.
// created reports whether a live banner did not exist before.
func (r *BannerRepository) GetOrCreate(ctx context.Context, newsID int, imageURL string, priority int) (*models.Banner, bool, error) {
	const q = `
		INSERT INTO banners (news_id, image_url, priority) VALUES ($1, $2, $3)
		ON CONFLICT (news_id) DO UPDATE
			SET image_url = EXCLUDED.image_url, priority = EXCLUDED.priority,
			    is_delete = FALSE, update_time = NOW()
			WHERE banners.is_delete = TRUE
		RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, q, newsID, imageURL, priority).Scan(&id)
	created := true
	if err == sql.ErrNoRows {
		created = false
		err = r.db.QueryRowContext(ctx, `SELECT id FROM banners WHERE news_id = $1`, newsID).Scan(&id)
	}
	if err != nil {
		return nil, false, fmt.Errorf("get or create banner: %w", err)
	}
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, created, nil
}

func (r *BannerRepository) Update(ctx context.Context, id int, imageURL string, priority int) error {
	const q = `UPDATE banners SET image_url = $1, priority = $2, update_time = NOW() WHERE id = $3 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, imageURL, priority, id); err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	return nil
}

func (r *BannerRepository) SoftDelete(ctx context.Context, id int) error {
	const q = `UPDATE banners SET is_delete = TRUE, update_time = NOW() WHERE id = $1 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}
