package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

const (
	NewsPerPage   = 5
	SearchPerPage = 5
	BannersShown  = 6
	HotNewsShown  = 3
)

type NewsReader interface {
	CountByTag(ctx context.Context, tagID int) (int, error)
	ListByTag(ctx context.Context, tagID, limit, offset int) ([]*models.News, error)
	GetByID(ctx context.Context, id int) (*models.News, error)
	IncrementClicks(ctx context.Context, id int) error
	CountSearch(ctx context.Context, query string) (int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.News, error)
}

type TagLister interface {
	List(ctx context.Context) ([]*models.Tag, error)
}

type HotNewsLister interface {
	List(ctx context.Context, limit, offset int) ([]*models.HotNews, error)
	Count(ctx context.Context) (int, error)
}

type BannerLister interface {
	List(ctx context.Context, limit int) ([]*models.Banner, error)
}

type CommentStore interface {
	ListByNews(ctx context.Context, newsID int) ([]*models.Comment, error)
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ExistsInNews(ctx context.Context, parentID, newsID int) (bool, error)
	Create(ctx context.Context, newsID, authorID int, content string, parentID *int) (int, error)
}

type NewsPage struct {
	News       []*models.News `json:"news"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

type NewsDetail struct {
	News     *models.News      `json:"news"`
	Comments []*models.Comment `json:"comments"`
}

// SearchResult carries either matching news or, for an empty query, hot news.
type SearchResult struct {
	Query      string            `json:"query"`
	News       []*models.News    `json:"news,omitempty"`
	HotNews    []*models.HotNews `json:"hot_news,omitempty"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

type NewsService struct {
	news     NewsReader
	tags     TagLister
	hot      HotNewsLister
	banners  BannerLister
	comments CommentStore
}

func NewNewsService(news NewsReader, tags TagLister, hot HotNewsLister, banners BannerLister, comments CommentStore) *NewsService {
	return &NewsService{news: news, tags: tags, hot: hot, banners: banners, comments: comments}
}

// List pages through news of one tag; an unknown or empty tag shows everything.
func (s *NewsService) List(ctx context.Context, tagID, page int) (*NewsPage, error) {
	if tagID < 0 {
		tagID = 0
	}
	total, err := s.news.CountByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if total == 0 && tagID != 0 {
		tagID = 0
		if total, err = s.news.CountByTag(ctx, 0); err != nil {
			return nil, err
		}
	}
	p := repositories.Paginate(total, page, NewsPerPage)
	list, err := s.news.ListByTag(ctx, tagID, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}
	return &NewsPage{News: list, Page: p.Number, TotalPages: p.TotalPages}, nil
}

func (s *NewsService) Tags(ctx context.Context) ([]*models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *NewsService) Banners(ctx context.Context) ([]*models.Banner, error) {
	return s.banners.List(ctx, BannersShown)
}

func (s *NewsService) HotNews(ctx context.Context) ([]*models.HotNews, error) {
	return s.hot.List(ctx, HotNewsShown, 0)
}

// Detail loads one article with its comments and counts the view.
func (s *NewsService) Detail(ctx context.Context, id int) (*NewsDetail, error) {
	n, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	if err := s.news.IncrementClicks(ctx, id); err != nil {
		log.Printf("[news][detail] warn: clicks update failed news_id=%d: %v", id, err)
	} else {
		n.Clicks++
	}
	comments, err := s.comments.ListByNews(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NewsDetail{News: n, Comments: comments}, nil
}

// PostComment stores a comment; a reply must point at a comment of the same article.
func (s *NewsService) PostComment(ctx context.Context, newsID, authorID int, content string, parentID *int) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > 512 {
		return nil, ValidationErrors{invalid("content", "comment must be 1-512 characters")}
	}
	n, err := s.news.GetByID(ctx, newsID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	if parentID != nil {
		ok, err := s.comments.ExistsInNews(ctx, *parentID, newsID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ValidationErrors{invalid("parent_id", "parent comment does not belong to this news")}
		}
	}
	id, err := s.comments.Create(ctx, newsID, authorID, content, parentID)
	if err != nil {
		return nil, fmt.Errorf("post comment: %w", err)
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if parentID != nil {
		if c.Parent, err = s.comments.GetByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Search matches titles, digests and bodies; an empty query lists hot news instead.
func (s *NewsService) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		total, err := s.hot.Count(ctx)
		if err != nil {
			return nil, err
		}
		p := repositories.Paginate(total, page, SearchPerPage)
		hot, err := s.hot.List(ctx, p.PerPage, p.Offset())
		if err != nil {
			return nil, err
		}
		return &SearchResult{HotNews: hot, Page: p.Number, TotalPages: p.TotalPages}, nil
	}

	total, err := s.news.CountSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	p := repositories.Paginate(total, page, SearchPerPage)
	list, err := s.news.Search(ctx, query, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: query, News: list, Page: p.Number, TotalPages: p.TotalPages}, nil
}
