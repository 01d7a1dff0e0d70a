package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"newsportal/internal/models"
)

type CourseRepository struct{ db *sql.DB }

func NewCourseRepository(db *sql.DB) *CourseRepository { return &CourseRepository{db: db} }

const courseSelect = `
	SELECT c.id, c.title, c.cover_url, c.video_url, c.duration, c.profile, c.outline,
	       c.teacher_id, c.category_id, COALESCE(cc.name, ''), c.update_time,
	       t.id, t.name, t.positional_title, t.profile, t.avatar_url
	FROM courses c
	LEFT JOIN teachers t ON t.id = c.teacher_id
	LEFT JOIN course_categories cc ON cc.id = c.category_id
	WHERE c.is_delete = FALSE`

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	var teacherID, categoryID, tID sql.NullInt64
	var tName, tTitle, tProfile, tAvatar sql.NullString
	if err := row.Scan(
		&c.ID, &c.Title, &c.CoverURL, &c.VideoURL, &c.Duration, &c.Profile, &c.Outline,
		&teacherID, &categoryID, &c.CategoryName, &c.UpdateTime,
		&tID, &tName, &tTitle, &tProfile, &tAvatar,
	); err != nil {
		return nil, err
	}
	c.TeacherID = intPtr(teacherID)
	c.CategoryID = intPtr(categoryID)
	if tID.Valid {
		c.Teacher = &models.Teacher{
			ID:              int(tID.Int64),
			Name:            tName.String,
			PositionalTitle: tTitle.String,
			Profile:         tProfile.String,
			AvatarURL:       tAvatar.String,
		}
	}
	return c, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.QueryContext(ctx, courseSelect+` ORDER BY c.update_time DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var res []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	c, err := scanCourse(r.db.QueryRowContext(ctx, courseSelect+` AND c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	const q = `
		INSERT INTO courses (title, cover_url, video_url, duration, profile, outline, teacher_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, update_time`
	if err := r.db.QueryRowContext(ctx, q,
		c.Title, c.CoverURL, c.VideoURL, c.Duration, c.Profile, c.Outline,
		nullInt(c.TeacherID), nullInt(c.CategoryID),
	).Scan(&c.ID, &c.UpdateTime); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	const q = `
		UPDATE courses
		SET title = $1, cover_url = $2, video_url = $3, duration = $4, profile = $5, outline = $6,
		    teacher_id = $7, category_id = $8, update_time = NOW()
		WHERE id = $9 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q,
		c.Title, c.CoverURL, c.VideoURL, c.Duration, c.Profile, c.Outline,
		nullInt(c.TeacherID), nullInt(c.CategoryID), c.ID,
	); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

func (r *CourseRepository) SoftDelete(ctx context.Context, id int) error {
	const q = `UPDATE courses SET is_delete = TRUE, update_time = NOW() WHERE id = $1 AND is_delete = FALSE`
	if err := execOne(ctx, r.db, q, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func (r *CourseRepository) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, positional_title FROM teachers WHERE is_delete = FALSE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var res []*models.Teacher
	for rows.Next() {
		t := &models.Teacher{}
		if err := rows.Scan(&t.ID, &t.Name, &t.PositionalTitle); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *CourseRepository) ListCategories(ctx context.Context) ([]*models.CourseCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM course_categories WHERE is_delete = FALSE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list course categories: %w", err)
	}
	defer rows.Close()

	var res []*models.CourseCategory
	for rows.Next() {
		cc := &models.CourseCategory{}
		if err := rows.Scan(&cc.ID, &cc.Name); err != nil {
			return nil, err
		}
		res = append(res, cc)
	}
	return res, rows.Err()
}

// TeacherExists and CategoryExists validate course references.
func (r *CourseRepository) TeacherExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1 AND is_delete = FALSE)`, id)
}

func (r *CourseRepository) CategoryExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM course_categories WHERE id = $1 AND is_delete = FALSE)`, id)
}

func (r *CourseRepository) exists(ctx context.Context, q string, id int) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("course reference: %w", err)
	}
	return ok, nil
}
