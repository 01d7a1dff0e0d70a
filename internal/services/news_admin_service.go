package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

const AdminNewsPerPage = 10

type TagAdminStore interface {
	ListWithNewsCount(ctx context.Context) ([]*models.Tag, error)
	GetByID(ctx context.Context, id int) (*models.Tag, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (*models.Tag, error)
	Rename(ctx context.Context, id int, name string) error
	SoftDelete(ctx context.Context, id int) error
}

type HotNewsAdminStore interface {
	HotNewsLister
	GetByID(ctx context.Context, id int) (*models.HotNews, error)
	Upsert(ctx context.Context, newsID, priority int) (bool, error)
	UpdatePriority(ctx context.Context, id, priority int) error
	SoftDelete(ctx context.Context, id int) error
}

type NewsAdminStore interface {
	CountFiltered(ctx context.Context, f models.NewsFilter) (int, error)
	ListFiltered(ctx context.Context, f models.NewsFilter, limit, offset int) ([]*models.News, error)
	GetByID(ctx context.Context, id int) (*models.News, error)
	Exists(ctx context.Context, id int) (bool, error)
	ListTitlesByTag(ctx context.Context, tagID int) ([]*models.News, error)
	Create(ctx context.Context, n *models.News) error
	Update(ctx context.Context, n *models.News) error
	SoftDelete(ctx context.Context, id int) error
}

type BannerAdminStore interface {
	BannerLister
	GetByID(ctx context.Context, id int) (*models.Banner, error)
	GetOrCreate(ctx context.Context, newsID int, imageURL string, priority int) (*models.Banner, bool, error)
	Update(ctx context.Context, id int, imageURL string, priority int) error
	SoftDelete(ctx context.Context, id int) error
}

// storeErr translates repository sentinels into service ones.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrConflict):
		return ErrDuplicate
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

type NewsAdminService struct {
	tags    TagAdminStore
	hot     HotNewsAdminStore
	news    NewsAdminStore
	banners BannerAdminStore
}

func NewNewsAdminService(tags TagAdminStore, hot HotNewsAdminStore, news NewsAdminStore, banners BannerAdminStore) *NewsAdminService {
	return &NewsAdminService{tags: tags, hot: hot, news: news, banners: banners}
}

// ===== Tags =====

func (s *NewsAdminService) Tags(ctx context.Context) ([]*models.Tag, error) {
	return s.tags.ListWithNewsCount(ctx)
}

func checkTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 64 {
		return "", ValidationErrors{invalid("name", "tag name must be 1-64 characters")}
	}
	return name, nil
}

func (s *NewsAdminService) AddTag(ctx context.Context, name string) (*models.Tag, error) {
	name, err := checkTagName(name)
	if err != nil {
		return nil, err
	}
	exists, err := s.tags.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}
	t, err := s.tags.Create(ctx, name)
	if err != nil {
		return nil, storeErr("add tag", err)
	}
	log.Printf("[admin][tags] added tag_id=%d name=%q", t.ID, t.Name)
	return t, nil
}

func (s *NewsAdminService) RenameTag(ctx context.Context, id int, name string) error {
	name, err := checkTagName(name)
	if err != nil {
		return err
	}
	t, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	if t.Name == name {
		return ErrNoChange
	}
	exists, err := s.tags.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	if err := s.tags.Rename(ctx, id, name); err != nil {
		return storeErr("rename tag", err)
	}
	return nil
}

func (s *NewsAdminService) DeleteTag(ctx context.Context, id int) error {
	if err := s.tags.SoftDelete(ctx, id); err != nil {
		return storeErr("delete tag", err)
	}
	return nil
}

// ===== Hot news =====

func checkPriority(p, max int) error {
	if p < 1 || p > max {
		return ValidationErrors{invalid("priority", fmt.Sprintf("priority must be between 1 and %d", max))}
	}
	return nil
}

func (s *NewsAdminService) HotNews(ctx context.Context) ([]*models.HotNews, error) {
	total, err := s.hot.Count(ctx)
	if err != nil {
		return nil, err
	}
	return s.hot.List(ctx, total, 0)
}

// NewsTitlesByTag feeds the picker on the hot-news form.
func (s *NewsAdminService) NewsTitlesByTag(ctx context.Context, tagID int) ([]*models.News, error) {
	return s.news.ListTitlesByTag(ctx, tagID)
}

func (s *NewsAdminService) AddHotNews(ctx context.Context, newsID, priority int) error {
	if err := checkPriority(priority, 3); err != nil {
		return err
	}
	ok, err := s.news.Exists(ctx, newsID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	created, err := s.hot.Upsert(ctx, newsID, priority)
	if err != nil {
		return storeErr("add hot news", err)
	}
	if !created {
		return ErrDuplicate
	}
	return nil
}

func (s *NewsAdminService) SetHotNewsPriority(ctx context.Context, id, priority int) error {
	if err := checkPriority(priority, 3); err != nil {
		return err
	}
	h, err := s.hot.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if h == nil {
		return ErrNotFound
	}
	if h.Priority == priority {
		return ErrNoChange
	}
	if err := s.hot.UpdatePriority(ctx, id, priority); err != nil {
		return storeErr("update hot news", err)
	}
	return nil
}

func (s *NewsAdminService) DeleteHotNews(ctx context.Context, id int) error {
	if err := s.hot.SoftDelete(ctx, id); err != nil {
		return storeErr("delete hot news", err)
	}
	return nil
}

// ===== News =====

func (s *NewsAdminService) ManageNews(ctx context.Context, f models.NewsFilter, page int) (*NewsPage, error) {
	total, err := s.news.CountFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	p := repositories.Paginate(total, page, AdminNewsPerPage)
	list, err := s.news.ListFiltered(ctx, f, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}
	return &NewsPage{News: list, Page: p.Number, TotalPages: p.TotalPages}, nil
}

func (s *NewsAdminService) checkNewsForm(ctx context.Context, form *models.NewsForm) error {
	form.Title = strings.TrimSpace(form.Title)
	form.Digest = strings.TrimSpace(form.Digest)
	form.ImageURL = strings.TrimSpace(form.ImageURL)

	var errs ValidationErrors
	if form.Title == "" || utf8.RuneCountInString(form.Title) > 150 {
		errs = append(errs, invalid("title", "title must be 1-150 characters"))
	}
	if form.Digest == "" || utf8.RuneCountInString(form.Digest) > 200 {
		errs = append(errs, invalid("digest", "digest must be 1-200 characters"))
	}
	if strings.TrimSpace(form.Content) == "" {
		errs = append(errs, invalid("content", "content is required"))
	}
	if form.ImageURL == "" {
		errs = append(errs, invalid("image_url", "image_url is required"))
	}
	if form.TagID <= 0 {
		errs = append(errs, invalid("tag_id", "tag is required"))
	} else {
		t, err := s.tags.GetByID(ctx, form.TagID)
		if err != nil {
			return err
		}
		if t == nil {
			errs = append(errs, invalid("tag_id", "tag does not exist"))
		}
	}
	return errs.orNil()
}

func (s *NewsAdminService) NewsForEdit(ctx context.Context, id int) (*models.News, error) {
	n, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *NewsAdminService) PublishNews(ctx context.Context, authorID int, form models.NewsForm) (*models.News, error) {
	if err := s.checkNewsForm(ctx, &form); err != nil {
		return nil, err
	}
	tagID := form.TagID
	n := &models.News{
		Title:    form.Title,
		Digest:   form.Digest,
		Content:  form.Content,
		ImageURL: form.ImageURL,
		TagID:    &tagID,
		AuthorID: &authorID,
	}
	if err := s.news.Create(ctx, n); err != nil {
		return nil, storeErr("publish news", err)
	}
	log.Printf("[admin][news] published news_id=%d author_id=%d", n.ID, authorID)
	return n, nil
}

func (s *NewsAdminService) EditNews(ctx context.Context, id int, form models.NewsForm) error {
	n, err := s.NewsForEdit(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkNewsForm(ctx, &form); err != nil {
		return err
	}
	tagID := form.TagID
	n.Title, n.Digest, n.Content, n.ImageURL, n.TagID = form.Title, form.Digest, form.Content, form.ImageURL, &tagID
	if err := s.news.Update(ctx, n); err != nil {
		return storeErr("edit news", err)
	}
	return nil
}

func (s *NewsAdminService) DeleteNews(ctx context.Context, id int) error {
	if err := s.news.SoftDelete(ctx, id); err != nil {
		return storeErr("delete news", err)
	}
	return nil
}

// ===== Banners =====

func (s *NewsAdminService) Banners(ctx context.Context) ([]*models.Banner, error) {
	return s.banners.List(ctx, 0)
}

func checkBanner(imageURL string, priority int) error {
	var errs ValidationErrors
	if strings.TrimSpace(imageURL) == "" {
		errs = append(errs, invalid("image_url", "image_url is required"))
	}
	if err := checkPriority(priority, 6); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	return errs.orNil()
}

func (s *NewsAdminService) AddBanner(ctx context.Context, form models.BannerForm) (*models.Banner, error) {
	if err := checkBanner(form.ImageURL, form.Priority); err != nil {
		return nil, err
	}
	ok, err := s.news.Exists(ctx, form.NewsID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	b, created, err := s.banners.GetOrCreate(ctx, form.NewsID, strings.TrimSpace(form.ImageURL), form.Priority)
	if err != nil {
		return nil, storeErr("add banner", err)
	}
	if !created {
		return nil, ErrDuplicate
	}
	return b, nil
}

func (s *NewsAdminService) EditBanner(ctx context.Context, id int, imageURL string, priority int) error {
	if err := checkBanner(imageURL, priority); err != nil {
		return err
	}
	imageURL = strings.TrimSpace(imageURL)
	b, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	if b.ImageURL == imageURL && b.Priority == priority {
		return ErrNoChange
	}
	if err := s.banners.Update(ctx, id, imageURL, priority); err != nil {
		return storeErr("edit banner", err)
	}
	return nil
}

func (s *NewsAdminService) DeleteBanner(ctx context.Context, id int) error {
	if err := s.banners.SoftDelete(ctx, id); err != nil {
		return storeErr("delete banner", err)
	}
	return nil
}
