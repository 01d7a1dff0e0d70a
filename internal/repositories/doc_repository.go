package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"newsportal/internal/models"
)

type DocRepository struct{ db *sql.DB }

func NewDocRepository(db *sql.DB) *DocRepository { return &DocRepository{db: db} }

const docSelect = `SELECT id, title, "desc", file_url, image_url, author_id, update_time FROM docs`

func scanDoc(row rowScanner) (*models.Doc, error) {
	d := &models.Doc{}
	var authorID sql.NullInt64
	if err := row.Scan(&d.ID, &d.Title, &d.Desc, &d.FileURL, &d.ImageURL, &authorID, &d.UpdateTime); err != nil {
		return nil, err
	}
	d.AuthorID = intPtr(authorID)
	return d, nil
}

func (r *DocRepository) List(ctx context.Context) ([]*models.Doc, error) {
	rows, err := r.db.QueryContext(ctx, docSelect+` WHERE is_delete = FALSE ORDER BY update_time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}
	defer rows.Close()

	var res []*models.Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *DocRepository) GetByID(ctx context.Context, id int) (*models.Doc, error) {
	d, err := scanDoc(r.db.QueryRowContext(ctx, docSelect+` WHERE id = $1 AND is_delete = FALSE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get doc: %w", err)
	}
	return d, nil
}

func (r *DocRepository) Create(ctx context.Context, d *models.Doc) error {
	const q = `
		INSERT INTO docs (title, "desc", file_url, image_url, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, update_time`
	if err := r.db.QueryRowContext(ctx, q,
		d.Title, d.Desc, d.FileURL, d.ImageURL, nullInt(d.AuthorID),
	).Scan(&d.ID, &d.UpdateTime); err != nil {
		return fmt.Errorf("create doc: %w", err)
	}
	return nil
}

func (r *DocRepository) Update(ctx context.Context, d *models.Doc) error {
	const q = `
		UPDATE docs
		SET title = $1, "desc" = $2, file_url = $3, image_url = $4, update_time = NOW()
		WHERE id = $5 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, d.Title, d.Desc, d.FileURL, d.ImageURL, d.ID); err != nil {
		return fmt.Errorf("update doc: %w", err)
	}
	return nil
}

func (r *DocRepository) SoftDelete(ctx context.Context, id int) error {
	const q = `UPDATE docs SET is_delete = TRUE, update_time = NOW() WHERE id = $1 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, id); err != nil {
		return fmt.Errorf("delete doc: %w", err)
	}
	return nil
}
