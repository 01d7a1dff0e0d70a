package services

import (
	"context"
	"errors"
	"testing"

	"newsportal/internal/models"
)

func newNewsService(news *fakeNews, hot *fakeHot, comments *fakeComments) *NewsService {
	return NewNewsService(news, &fakeTags{}, hot, &fakeBanners{}, comments)
}

func TestNewsListPaginates(t *testing.T) {
	svc := newNewsService(seedNews(12, 1), &fakeHot{}, &fakeComments{})

	page, err := svc.List(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalPages != 3 || page.Page != 2 || len(page.News) != NewsPerPage {
		t.Fatalf("unexpected page: page=%d total=%d len=%d", page.Page, page.TotalPages, len(page.News))
	}
	if page.News[0].ID != 6 {
		t.Fatalf("second page starts at id %d", page.News[0].ID)
	}
}

func TestNewsListClampsOverflow(t *testing.T) {
	svc := newNewsService(seedNews(7, 1), &fakeHot{}, &fakeComments{})

	page, err := svc.List(context.Background(), 1, 99)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Page != 2 || len(page.News) != 2 {
		t.Fatalf("expected last page with 2 items, got page=%d len=%d", page.Page, len(page.News))
	}
}

func TestNewsListUnknownTagFallsBack(t *testing.T) {
	svc := newNewsService(seedNews(3, 1), &fakeHot{}, &fakeComments{})

	page, err := svc.List(context.Background(), 42, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.News) != 3 {
		t.Fatalf("expected all news, got %d", len(page.News))
	}
}

func TestNewsDetailCountsClick(t *testing.T) {
	news := seedNews(2, 1)
	comments := &fakeComments{items: []*models.Comment{{ID: 1, NewsID: 2, Content: "hi"}}}
	svc := newNewsService(news, &fakeHot{}, comments)

	d, err := svc.Detail(context.Background(), 2)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.News.Clicks != 1 || news.clicks[2] != 1 {
		t.Fatalf("click not counted: %d / %d", d.News.Clicks, news.clicks[2])
	}
	if len(d.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(d.Comments))
	}

	if _, err := svc.Detail(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostCommentParentMustBelongToNews(t *testing.T) {
	comments := &fakeComments{items: []*models.Comment{
		{ID: 1, NewsID: 1, Content: "on news 1"},
		{ID: 2, NewsID: 2, Content: "on news 2"},
	}}
	svc := newNewsService(seedNews(2, 1), &fakeHot{}, comments)
	ctx := context.Background()

	foreign := 2
	_, err := svc.PostComment(ctx, 1, 7, "reply", &foreign)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs[0].Field != "parent_id" {
		t.Fatalf("expected parent_id error, got %v", err)
	}

	own := 1
	c, err := svc.PostComment(ctx, 1, 7, "  reply  ", &own)
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	if c.Content != "reply" || c.Parent == nil || c.Parent.ID != 1 {
		t.Fatalf("unexpected comment: %+v", c)
	}
}

func TestPostCommentValidation(t *testing.T) {
	svc := newNewsService(seedNews(1, 1), &fakeHot{}, &fakeComments{})

	if _, err := svc.PostComment(context.Background(), 1, 7, "   ", nil); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.PostComment(context.Background(), 5, 7, "hello", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchEmptyQueryListsHotNews(t *testing.T) {
	hot := &fakeHot{items: []*models.HotNews{
		{ID: 1, NewsID: 1, Priority: 2, Clicks: 10},
		{ID: 2, NewsID: 2, Priority: 1, Clicks: 1},
		{ID: 3, NewsID: 3, Priority: 1, Clicks: 5},
	}}
	svc := newNewsService(seedNews(3, 1), hot, &fakeComments{})

	res, err := svc.Search(context.Background(), "  ", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.News) != 0 || len(res.HotNews) != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.HotNews[0].ID != 3 || res.HotNews[1].ID != 2 || res.HotNews[2].ID != 1 {
		t.Fatalf("hot news not ordered by priority then clicks: %v, %v, %v",
			res.HotNews[0].ID, res.HotNews[1].ID, res.HotNews[2].ID)
	}
}

func TestSearchMatchesTitle(t *testing.T) {
	svc := newNewsService(seedNews(3, 1), &fakeHot{}, &fakeComments{})

	res, err := svc.Search(context.Background(), "news b", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Query != "news b" || len(res.News) != 1 || res.News[0].ID != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
