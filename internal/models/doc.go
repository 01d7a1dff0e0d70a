package models

import "time"

type Doc struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	FileURL    string    `json:"file_url"`
	ImageURL   string    `json:"image_url"`
	AuthorID   *int      `json:"author_id,omitempty"`
	UpdateTime time.Time `json:"update_time"`
}

type Teacher struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	PositionalTitle string `json:"positional_title"`
	Profile         string `json:"profile,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
}

type CourseCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CoverURL     string    `json:"cover_url"`
	VideoURL     string    `json:"video_url,omitempty"`
	Duration     float64   `json:"duration,omitempty"`
	Profile      string    `json:"profile,omitempty"`
	Outline      string    `json:"outline,omitempty"`
	TeacherID    *int      `json:"teacher_id,omitempty"`
	CategoryID   *int      `json:"category_id,omitempty"`
	Teacher      *Teacher  `json:"teacher,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	UpdateTime   time.Time `json:"update_time"`
}

type DocForm struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	FileURL  string `json:"file_url"`
	ImageURL string `json:"image_url"`
}

type CourseForm struct {
	Title      string  `json:"title"`
	CoverURL   string  `json:"cover_url"`
	VideoURL   string  `json:"video_url"`
	Duration   float64 `json:"duration"`
	Profile    string  `json:"profile"`
	Outline    string  `json:"outline"`
	TeacherID  int     `json:"teacher_id"`
	CategoryID int     `json:"category_id"`
}
