package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"newsportal/internal/models"
)

type NewsRepository struct{ db *sql.DB }

func NewNewsRepository(db *sql.DB) *NewsRepository { return &NewsRepository{db: db} }

const newsColumns = `
	n.id, n.title, n.digest, n.clicks, n.image_url, n.tag_id, COALESCE(t.name, ''),
	n.author_id, COALESCE(u.username, ''), n.update_time`

const newsFrom = `
	FROM news n
	LEFT JOIN tags t ON t.id = n.tag_id
	LEFT JOIN users u ON u.id = n.author_id`

func scanNews(row rowScanner, extra ...interface{}) (*models.News, error) {
	n := &models.News{}
	var tagID, authorID sql.NullInt64
	dest := []interface{}{
		&n.ID, &n.Title, &n.Digest, &n.Clicks, &n.ImageURL, &tagID, &n.TagName,
		&authorID, &n.Author, &n.UpdateTime,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	n.TagID = intPtr(tagID)
	n.AuthorID = intPtr(authorID)
	return n, nil
}

func (r *NewsRepository) queryNews(ctx context.Context, q string, args ...interface{}) ([]*models.News, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

// CountByTag counts live news; tagID 0 means every tag.
func (r *NewsRepository) CountByTag(ctx context.Context, tagID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news WHERE is_delete = FALSE AND ($1 = 0 OR tag_id = $1)`, tagID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) ListByTag(ctx context.Context, tagID, limit, offset int) ([]*models.News, error) {
	q := `SELECT` + newsColumns + newsFrom + `
		WHERE n.is_delete = FALSE AND ($1 = 0 OR n.tag_id = $1)
		ORDER BY n.update_time DESC, n.id DESC
		LIMIT $2 OFFSET $3`
	res, err := r.queryNews(ctx, q, tagID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return res, nil
}

func (r *NewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	q := `SELECT` + newsColumns + `, n.content` + newsFrom + ` WHERE n.id = $1 AND n.is_delete = FALSE`
	var content string
	n, err := scanNews(r.db.QueryRowContext(ctx, q, id), &content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	n.Content = content
	return n, nil
}

func (r *NewsRepository) Exists(ctx context.Context, id int) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM news WHERE id = $1 AND is_delete = FALSE)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("news exists: %w", err)
	}
	return ok, nil
}

func (r *NewsRepository) IncrementClicks(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE news SET clicks = clicks + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	return nil
}

func searchPattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func (r *NewsRepository) CountSearch(ctx context.Context, query string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM news
		WHERE is_delete = FALSE AND (title ILIKE $1 OR digest ILIKE $1 OR content ILIKE $1)`,
		searchPattern(query)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count search: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.News, error) {
	q := `SELECT` + newsColumns + newsFrom + `
		WHERE n.is_delete = FALSE AND (n.title ILIKE $1 OR n.digest ILIKE $1 OR n.content ILIKE $1)
		ORDER BY n.update_time DESC, n.id DESC
		LIMIT $2 OFFSET $3`
	res, err := r.queryNews(ctx, q, searchPattern(query), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	return res, nil
}

// adminWhere builds the WHERE clause of the management listing.
func adminWhere(f models.NewsFilter) (string, []interface{}) {
	conds := []string{"n.is_delete = FALSE"}
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.StartTime != nil {
		add("n.update_time >= $%d", *f.StartTime)
	}
	if f.EndTime != nil {
		add("n.update_time <= $%d", *f.EndTime)
	}
	if f.Title != "" {
		add("n.title ILIKE $%d", searchPattern(f.Title))
	}
	if f.AuthorName != "" {
		add("u.username ILIKE $%d", searchPattern(f.AuthorName))
	}
	if f.TagID > 0 {
		add("n.tag_id = $%d", f.TagID)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *NewsRepository) CountFiltered(ctx context.Context, f models.NewsFilter) (int, error) {
	where, args := adminWhere(f)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+newsFrom+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count filtered news: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) ListFiltered(ctx context.Context, f models.NewsFilter, limit, offset int) ([]*models.News, error) {
	where, args := adminWhere(f)
	q := fmt.Sprintf(`SELECT%s%s%s ORDER BY n.update_time DESC, n.id DESC LIMIT $%d OFFSET $%d`,
		newsColumns, newsFrom, where, len(args)+1, len(args)+2)
	res, err := r.queryNews(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list filtered news: %w", err)
	}
	return res, nil
}

// ListTitlesByTag feeds the hot-news picker.
func (r *NewsRepository) ListTitlesByTag(ctx context.Context, tagID int) ([]*models.News, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title FROM news WHERE is_delete = FALSE AND tag_id = $1 ORDER BY id DESC`, tagID)
	if err != nil {
		return nil, fmt.Errorf("news by tag: %w", err)
	}
	defer rows.Close()

	var res []*models.News
	for rows.Next() {
		n := &models.News{}
		if err := rows.Scan(&n.ID, &n.Title); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *NewsRepository) Create(ctx context.Context, n *models.News) error {
	const q = `
		INSERT INTO news (title, digest, content, image_url, tag_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, update_time`
	if err := r.db.QueryRowContext(ctx, q,
		n.Title, n.Digest, n.Content, n.ImageURL, nullInt(n.TagID), nullInt(n.AuthorID),
	).Scan(&n.ID, &n.UpdateTime); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

func (r *NewsRepository) Update(ctx context.Context, n *models.News) error {
	const q = `
		UPDATE news
		SET title = $1, digest = $2, content = $3, image_url = $4, tag_id = $5, update_time = NOW()
		WHERE id = $6 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, n.Title, n.Digest, n.Content, n.ImageURL, nullInt(n.TagID), n.ID); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

func (r *NewsRepository) SoftDelete(ctx context.Context, id int) error {
	const q = `UPDATE news SET is_delete = TRUE, update_time = NOW() WHERE id = $1 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
