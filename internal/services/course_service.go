package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"newsportal/internal/models"
)

type CourseStore interface {
	List(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id int) (*models.Course, error)
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, c *models.Course) error
	SoftDelete(ctx context.Context, id int) error
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
	ListCategories(ctx context.Context) ([]*models.CourseCategory, error)
	TeacherExists(ctx context.Context, id int) (bool, error)
	CategoryExists(ctx context.Context, id int) (bool, error)
}

type CourseService struct {
	courses CourseStore
}

func NewCourseService(courses CourseStore) *CourseService {
	return &CourseService{courses: courses}
}

func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	return s.courses.List(ctx)
}

func (s *CourseService) Detail(ctx context.Context, id int) (*models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CourseService) Teachers(ctx context.Context) ([]*models.Teacher, error) {
	return s.courses.ListTeachers(ctx)
}

func (s *CourseService) Categories(ctx context.Context) ([]*models.CourseCategory, error) {
	return s.courses.ListCategories(ctx)
}

func (s *CourseService) checkForm(ctx context.Context, form *models.CourseForm) error {
	form.Title = strings.TrimSpace(form.Title)
	form.CoverURL = strings.TrimSpace(form.CoverURL)
	form.VideoURL = strings.TrimSpace(form.VideoURL)

	var errs ValidationErrors
	if form.Title == "" || utf8.RuneCountInString(form.Title) > 150 {
		errs = append(errs, invalid("title", "title must be 1-150 characters"))
	}
	if form.CoverURL == "" {
		errs = append(errs, invalid("cover_url", "cover_url is required"))
	}
	if form.VideoURL == "" {
		errs = append(errs, invalid("video_url", "video_url is required"))
	}
	if form.Duration < 0 {
		errs = append(errs, invalid("duration", "duration must not be negative"))
	}
	ok, err := s.courses.TeacherExists(ctx, form.TeacherID)
	if err != nil {
		return err
	}
	if !ok {
		errs = append(errs, invalid("teacher_id", "teacher does not exist"))
	}
	ok, err = s.courses.CategoryExists(ctx, form.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		errs = append(errs, invalid("category_id", "category does not exist"))
	}
	return errs.orNil()
}

func courseFromForm(c *models.Course, form models.CourseForm) {
	teacherID, categoryID := form.TeacherID, form.CategoryID
	c.Title = form.Title
	c.CoverURL = form.CoverURL
	c.VideoURL = form.VideoURL
	c.Duration = form.Duration
	c.Profile = form.Profile
	c.Outline = form.Outline
	c.TeacherID = &teacherID
	c.CategoryID = &categoryID
}

func (s *CourseService) Publish(ctx context.Context, form models.CourseForm) (*models.Course, error) {
	if err := s.checkForm(ctx, &form); err != nil {
		return nil, err
	}
	c := &models.Course{}
	courseFromForm(c, form)
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, storeErr("publish course", err)
	}
	return c, nil
}

func (s *CourseService) Edit(ctx context.Context, id int, form models.CourseForm) error {
	c, err := s.Detail(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkForm(ctx, &form); err != nil {
		return err
	}
	courseFromForm(c, form)
	if err := s.courses.Update(ctx, c); err != nil {
		return storeErr("edit course", err)
	}
	return nil
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	if err := s.courses.SoftDelete(ctx, id); err != nil {
		return storeErr("delete course", err)
	}
	return nil
}
