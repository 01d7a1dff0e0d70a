package models

import "time"

type Tag struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NumNews int    `json:"num_news"`
}

type News struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Digest     string    `json:"digest"`
	Content    string    `json:"content,omitempty"`
	Clicks     int       `json:"clicks"`
	ImageURL   string    `json:"image_url"`
	TagID      *int      `json:"tag_id,omitempty"`
	TagName    string    `json:"tag_name"`
	AuthorID   *int      `json:"author_id,omitempty"`
	Author     string    `json:"author"`
	UpdateTime time.Time `json:"update_time"`
}

type Comment struct {
	ID         int       `json:"content_id"`
	NewsID     int       `json:"news_id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	ParentID   *int      `json:"-"`
	Parent     *Comment  `json:"parent"`
	UpdateTime time.Time `json:"update_time"`
}

type HotNews struct {
	ID       int    `json:"id"`
	NewsID   int    `json:"news_id"`
	Priority int    `json:"priority"`
	Title    string `json:"news_title"`
	ImageURL string `json:"image_url"`
	TagName  string `json:"tag_name"`
	Clicks   int    `json:"clicks"`
}

type Banner struct {
	ID        int    `json:"id"`
	NewsID    int    `json:"news_id"`
	NewsTitle string `json:"news_title"`
	ImageURL  string `json:"image_url"`
	Priority  int    `json:"priority"`
}

// NewsFilter narrows the admin news listing.
type NewsFilter struct {
	StartTime  *time.Time
	EndTime    *time.Time
	Title      string
	AuthorName string
	TagID      int
}

// NewsForm is the admin publish/edit payload.
type NewsForm struct {
	Title    string `json:"title"`
	Digest   string `json:"digest"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	TagID    int    `json:"tag_id"`
}

type BannerForm struct {
	NewsID   int    `json:"news_id"`
	ImageURL string `json:"image_url"`
	Priority int    `json:"priority"`
}
