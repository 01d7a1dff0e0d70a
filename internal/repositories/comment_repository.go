package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"newsportal/internal/models"
)

type CommentRepository struct{ db *sql.DB }

func NewCommentRepository(db *sql.DB) *CommentRepository { return &CommentRepository{db: db} }

const commentSelect = `
	SELECT c.id, c.news_id, c.content, COALESCE(u.username, ''), c.parent_id, c.update_time
	FROM comments c LEFT JOIN users u ON u.id = c.author_id`

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	var parentID sql.NullInt64
	if err := row.Scan(&c.ID, &c.NewsID, &c.Content, &c.Author, &parentID, &c.UpdateTime); err != nil {
		return nil, err
	}
	c.ParentID = intPtr(parentID)
	return c, nil
}

// ListByNews returns live comments, newest first, each with its parent attached.
func (r *CommentRepository) ListByNews(ctx context.Context, newsID int) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE c.news_id = $1 AND c.is_delete = FALSE ORDER BY c.update_time DESC, c.id DESC`, newsID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var res []*models.Comment
	byID := map[int]*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range res {
		if c.ParentID != nil {
			c.Parent = byID[*c.ParentID]
		}
	}
	return res, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1 AND c.is_delete = FALSE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ExistsInNews checks that parentID is a live comment of newsID.
func (r *CommentRepository) ExistsInNews(ctx context.Context, parentID, newsID int) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1 AND news_id = $2 AND is_delete = FALSE)`,
		parentID, newsID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("comment exists: %w", err)
	}
	return ok, nil
}

func (r *CommentRepository) Create(ctx context.Context, newsID, authorID int, content string, parentID *int) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (news_id, author_id, content, parent_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		newsID, authorID, content, nullInt(parentID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}
	return id, nil
}
