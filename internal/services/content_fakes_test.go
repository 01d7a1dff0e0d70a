package services

import (
	"context"
	"sort"
	"strings"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

type fakeNews struct {
	items  []*models.News
	clicks map[int]int
	nextID int
}

func (f *fakeNews) live(tagID int) []*models.News {
	var out []*models.News
	for _, n := range f.items {
		if tagID == 0 || (n.TagID != nil && *n.TagID == tagID) {
			out = append(out, n)
		}
	}
	return out
}

func window(list []*models.News, limit, offset int) []*models.News {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (f *fakeNews) CountByTag(_ context.Context, tagID int) (int, error) {
	return len(f.live(tagID)), nil
}

func (f *fakeNews) ListByTag(_ context.Context, tagID, limit, offset int) ([]*models.News, error) {
	return window(f.live(tagID), limit, offset), nil
}

func (f *fakeNews) GetByID(_ context.Context, id int) (*models.News, error) {
	for _, n := range f.items {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeNews) Exists(ctx context.Context, id int) (bool, error) {
	n, _ := f.GetByID(ctx, id)
	return n != nil, nil
}

func (f *fakeNews) IncrementClicks(_ context.Context, id int) error {
	if f.clicks == nil {
		f.clicks = map[int]int{}
	}
	f.clicks[id]++
	return nil
}

func (f *fakeNews) matches(q string) []*models.News {
	var out []*models.News
	for _, n := range f.items {
		if strings.Contains(n.Title, q) || strings.Contains(n.Content, q) {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNews) CountSearch(_ context.Context, q string) (int, error) {
	return len(f.matches(q)), nil
}

func (f *fakeNews) Search(_ context.Context, q string, limit, offset int) ([]*models.News, error) {
	return window(f.matches(q), limit, offset), nil
}

func (f *fakeNews) CountFiltered(_ context.Context, flt models.NewsFilter) (int, error) {
	return len(f.live(flt.TagID)), nil
}

func (f *fakeNews) ListFiltered(_ context.Context, flt models.NewsFilter, limit, offset int) ([]*models.News, error) {
	return window(f.live(flt.TagID), limit, offset), nil
}

func (f *fakeNews) ListTitlesByTag(_ context.Context, tagID int) ([]*models.News, error) {
	return f.live(tagID), nil
}

func (f *fakeNews) Create(_ context.Context, n *models.News) error {
	f.nextID++
	n.ID = 100 + f.nextID
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNews) Update(_ context.Context, n *models.News) error {
	for i, ex := range f.items {
		if ex.ID == n.ID {
			cp := *n
			f.items[i] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNews) SoftDelete(_ context.Context, id int) error {
	for i, ex := range f.items {
		if ex.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func seedNews(count, tagID int) *fakeNews {
	f := &fakeNews{}
	for i := 1; i <= count; i++ {
		tag := tagID
		f.items = append(f.items, &models.News{ID: i, Title: "news " + string(rune('a'+i-1)), TagID: &tag})
	}
	return f
}

type fakeTags struct {
	tags   []*models.Tag
	nextID int
}

func (f *fakeTags) List(context.Context) ([]*models.Tag, error) { return f.tags, nil }

func (f *fakeTags) ListWithNewsCount(context.Context) ([]*models.Tag, error) { return f.tags, nil }

func (f *fakeTags) GetByID(_ context.Context, id int) (*models.Tag, error) {
	for _, t := range f.tags {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTags) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, t := range f.tags {
		if t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTags) Create(_ context.Context, name string) (*models.Tag, error) {
	f.nextID++
	t := &models.Tag{ID: 100 + f.nextID, Name: name}
	f.tags = append(f.tags, t)
	return t, nil
}

func (f *fakeTags) Rename(_ context.Context, id int, name string) error {
	for _, t := range f.tags {
		if t.ID == id {
			t.Name = name
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeTags) SoftDelete(_ context.Context, id int) error {
	for i, t := range f.tags {
		if t.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeHot struct {
	items []*models.HotNews
}

func (f *fakeHot) sorted() []*models.HotNews {
	out := append([]*models.HotNews(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Clicks > out[j].Clicks
	})
	return out
}

func (f *fakeHot) List(_ context.Context, limit, offset int) ([]*models.HotNews, error) {
	all := f.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeHot) Count(context.Context) (int, error) { return len(f.items), nil }

func (f *fakeHot) GetByID(_ context.Context, id int) (*models.HotNews, error) {
	for _, h := range f.items {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeHot) Upsert(_ context.Context, newsID, priority int) (bool, error) {
	for _, h := range f.items {
		if h.NewsID == newsID {
			return false, nil
		}
	}
	f.items = append(f.items, &models.HotNews{ID: len(f.items) + 1, NewsID: newsID, Priority: priority})
	return true, nil
}

func (f *fakeHot) UpdatePriority(_ context.Context, id, priority int) error {
	for _, h := range f.items {
		if h.ID == id {
			h.Priority = priority
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeHot) SoftDelete(_ context.Context, id int) error {
	for i, h := range f.items {
		if h.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeBanners struct {
	items []*models.Banner
}

func (f *fakeBanners) List(_ context.Context, limit int) ([]*models.Banner, error) {
	if limit > 0 && limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeBanners) GetByID(_ context.Context, id int) (*models.Banner, error) {
	for _, b := range f.items {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBanners) GetOrCreate(_ context.Context, newsID int, imageURL string, priority int) (*models.Banner, bool, error) {
	for _, b := range f.items {
		if b.NewsID == newsID {
			return b, false, nil
		}
	}
	b := &models.Banner{ID: len(f.items) + 1, NewsID: newsID, ImageURL: imageURL, Priority: priority}
	f.items = append(f.items, b)
	return b, true, nil
}

func (f *fakeBanners) Update(_ context.Context, id int, imageURL string, priority int) error {
	for _, b := range f.items {
		if b.ID == id {
			b.ImageURL, b.Priority = imageURL, priority
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeBanners) SoftDelete(_ context.Context, id int) error {
	for i, b := range f.items {
		if b.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeComments struct {
	items []*models.Comment
}

func (f *fakeComments) ListByNews(_ context.Context, newsID int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.items {
		if c.NewsID == newsID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) GetByID(_ context.Context, id int) (*models.Comment, error) {
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeComments) ExistsInNews(_ context.Context, parentID, newsID int) (bool, error) {
	for _, c := range f.items {
		if c.ID == parentID && c.NewsID == newsID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeComments) Create(_ context.Context, newsID, authorID int, content string, parentID *int) (int, error) {
	c := &models.Comment{ID: len(f.items) + 1, NewsID: newsID, Content: content, ParentID: parentID}
	f.items = append(f.items, c)
	return c.ID, nil
}
