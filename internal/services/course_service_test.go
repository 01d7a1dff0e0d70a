package services

import (
	"context"
	"errors"
	"testing"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

type fakeCourses struct {
	items []*models.Course
}

func (f *fakeCourses) List(context.Context) ([]*models.Course, error) { return f.items, nil }

func (f *fakeCourses) GetByID(_ context.Context, id int) (*models.Course, error) {
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCourses) Create(_ context.Context, c *models.Course) error {
	c.ID = len(f.items) + 1
	cp := *c
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeCourses) Update(_ context.Context, c *models.Course) error {
	for i, ex := range f.items {
		if ex.ID == c.ID {
			cp := *c
			f.items[i] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCourses) SoftDelete(_ context.Context, id int) error {
	for i, ex := range f.items {
		if ex.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCourses) ListTeachers(context.Context) ([]*models.Teacher, error) {
	return []*models.Teacher{{ID: 1, Name: "Li"}}, nil
}

func (f *fakeCourses) ListCategories(context.Context) ([]*models.CourseCategory, error) {
	return []*models.CourseCategory{{ID: 1, Name: "Go"}}, nil
}

func (f *fakeCourses) TeacherExists(_ context.Context, id int) (bool, error)  { return id == 1, nil }
func (f *fakeCourses) CategoryExists(_ context.Context, id int) (bool, error) { return id == 1, nil }

func TestCourseLifecycle(t *testing.T) {
	courses := &fakeCourses{}
	svc := NewCourseService(courses)
	ctx := context.Background()

	_, err := svc.Publish(ctx, models.CourseForm{Title: "Go", CoverURL: "/c.png", VideoURL: "/v.mp4", TeacherID: 2, CategoryID: 1})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs[0].Field != "teacher_id" {
		t.Fatalf("expected teacher_id error, got %v", err)
	}

	c, err := svc.Publish(ctx, models.CourseForm{Title: "Go", CoverURL: "/c.png", VideoURL: "/v.mp4", Duration: 90, TeacherID: 1, CategoryID: 1})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if *c.TeacherID != 1 || c.Duration != 90 {
		t.Fatalf("unexpected course: %+v", c)
	}

	if err := svc.Edit(ctx, c.ID, models.CourseForm{Title: "Go 2", CoverURL: "/c.png", VideoURL: "/v.mp4", TeacherID: 1, CategoryID: 1}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, err := svc.Detail(ctx, c.ID)
	if err != nil || got.Title != "Go 2" {
		t.Fatalf("Detail = %+v, %v", got, err)
	}
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Detail(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
