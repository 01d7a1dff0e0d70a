package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

type NewsReader interface {
	List(ctx context.Context, tagID, page int) (*services.NewsPage, error)
	Tags(ctx context.Context) ([]*models.Tag, error)
	Banners(ctx context.Context) ([]*models.Banner, error)
	HotNews(ctx context.Context) ([]*models.HotNews, error)
	Detail(ctx context.Context, id int) (*services.NewsDetail, error)
	PostComment(ctx context.Context, newsID, authorID int, content string, parentID *int) (*models.Comment, error)
	Search(ctx context.Context, query string, page int) (*services.SearchResult, error)
}

type NewsHandler struct {
	svc NewsReader
}

func NewNewsHandler(svc NewsReader) *NewsHandler { return &NewsHandler{svc: svc} }

// @Summary      News list
// @Tags         News
// @Produce      json
// @Param        tag_id  query  int  false  "Tag filter"
// @Param        page    query  int  false  "Page number"
// @Success      200  {object}  map[string]interface{}
// @Router       /news/ [get]
func (h *NewsHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), queryInt(c, "tag_id", 0), queryInt(c, "page", 1))
	if err != nil {
		fail(c, "[news][list]", err)
		return
	}
	response.Success(c, page)
}

func (h *NewsHandler) Tags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		fail(c, "[news][tags]", err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}

func (h *NewsHandler) Banners(c *gin.Context) {
	banners, err := h.svc.Banners(c.Request.Context())
	if err != nil {
		fail(c, "[news][banners]", err)
		return
	}
	response.Success(c, gin.H{"banners": banners})
}

func (h *NewsHandler) HotNews(c *gin.Context) {
	hot, err := h.svc.HotNews(c.Request.Context())
	if err != nil {
		fail(c, "[news][hot]", err)
		return
	}
	response.Success(c, gin.H{"hot_news": hot})
}

// @Summary      News detail with comments
// @Tags         News
// @Produce      json
// @Param        news_id  path  int  true  "News id"
// @Success      200  {object}  map[string]interface{}
// @Router       /news/{news_id}/ [get]
func (h *NewsHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "news_id")
	if !ok {
		return
	}
	d, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, "[news][detail]", err)
		return
	}
	response.Success(c, d)
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *int   `json:"parent_id"`
}

// @Summary      Post a comment
// @Tags         News
// @Accept       json
// @Produce      json
// @Param        news_id  path  int  true  "News id"
// @Success      200  {object}  map[string]interface{}
// @Router       /news/{news_id}/comments/ [post]
func (h *NewsHandler) PostComment(c *gin.Context) {
	id, ok := paramID(c, "news_id")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.svc.PostComment(c.Request.Context(), id, currentUserID(c), req.Content, req.ParentID)
	if err != nil {
		fail(c, "[news][comment]", err)
		return
	}
	response.Success(c, comment)
}

// @Summary      Search news
// @Tags         News
// @Produce      json
// @Param        q     query  string  false  "Query; empty lists hot news"
// @Param        page  query  int     false  "Page number"
// @Success      200  {object}  map[string]interface{}
// @Router       /search/ [get]
func (h *NewsHandler) Search(c *gin.Context) {
	res, err := h.svc.Search(c.Request.Context(), c.Query("q"), queryInt(c, "page", 1))
	if err != nil {
		fail(c, "[news][search]", err)
		return
	}
	response.Success(c, res)
}
