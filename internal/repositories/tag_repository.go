package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"newsportal/internal/models"
)

type TagRepository struct{ db *sql.DB }

func NewTagRepository(db *sql.DB) *TagRepository { return &TagRepository{db: db} }

func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM tags WHERE is_delete = FALSE ORDER BY update_time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var res []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// ListWithNewsCount orders by live news count, most used first.
func (r *TagRepository) ListWithNewsCount(ctx context.Context) ([]*models.Tag, error) {
	const q = `
		SELECT t.id, t.name, COUNT(n.id) AS num_news
		FROM tags t
		LEFT JOIN news n ON n.tag_id = t.id AND n.is_delete = FALSE
		WHERE t.is_delete = FALSE
		GROUP BY t.id, t.name, t.update_time
		ORDER BY num_news DESC, t.update_time
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tags with counts: %w", err)
	}
	defer rows.Close()

	var res []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.NumNews); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TagRepository) GetByID(ctx context.Context, id int) (*models.Tag, error) {
	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE id = $1 AND is_delete = FALSE`, id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

func (r *TagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1 AND is_delete = FALSE)`, name).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("tag exists: %w", err)
	}
	return ok, nil
}

func (r *TagRepository) Create(ctx context.Context, name string) (*models.Tag, error) {
	t := &models.Tag{Name: name}
	if err := r.db.QueryRowContext(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING id`, name).Scan(&t.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

func (r *TagRepository) Rename(ctx context.Context, id int, name string) error {
	const q = `UPDATE tags SET name = $1, update_time = NOW() WHERE id = $2 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, name, id); err != nil {
		return fmt.Errorf("rename tag: %w", err)
	}
	return nil
}

func (r *TagRepository) SoftDelete(ctx context.Context, id int) error {
	const q = `UPDATE tags SET is_delete = TRUE, update_time = NOW() WHERE id = $1 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
