package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

const filterDateLayout = "2006/01/02"

type AdminNewsHandler struct {
	svc     *services.NewsAdminService
	uploads *services.UploadService
}

func NewAdminNewsHandler(svc *services.NewsAdminService, uploads *services.UploadService) *AdminNewsHandler {
	return &AdminNewsHandler{svc: svc, uploads: uploads}
}

type nameRequest struct {
	Name string `json:"name"`
}

// ===== Tags =====

func (h *AdminNewsHandler) ListTags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		fail(c, "[admin][tags]", err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}

func (h *AdminNewsHandler) AddTag(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.svc.AddTag(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, "[admin][tags]", err)
		return
	}
	response.Success(c, tag)
}

func (h *AdminNewsHandler) RenameTag(c *gin.Context) {
	id, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.RenameTag(c.Request.Context(), id, req.Name); err != nil {
		fail(c, "[admin][tags]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminNewsHandler) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTag(c.Request.Context(), id); err != nil {
		fail(c, "[admin][tags]", err)
		return
	}
	response.Success(c, nil)
}

// ===== Hot news =====

type hotNewsRequest struct {
	NewsID   int `json:"news_id"`
	Priority int `json:"priority"`
}

func (h *AdminNewsHandler) ListHotNews(c *gin.Context) {
	hot, err := h.svc.HotNews(c.Request.Context())
	if err != nil {
		fail(c, "[admin][hotnews]", err)
		return
	}
	response.Success(c, gin.H{"hot_news": hot})
}

func (h *AdminNewsHandler) NewsByTag(c *gin.Context) {
	id, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	news, err := h.svc.NewsTitlesByTag(c.Request.Context(), id)
	if err != nil {
		fail(c, "[admin][hotnews]", err)
		return
	}
	response.Success(c, gin.H{"news": news})
}

func (h *AdminNewsHandler) AddHotNews(c *gin.Context) {
	var req hotNewsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.AddHotNews(c.Request.Context(), req.NewsID, req.Priority); err != nil {
		fail(c, "[admin][hotnews]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminNewsHandler) EditHotNews(c *gin.Context) {
	id, ok := paramID(c, "hotnews_id")
	if !ok {
		return
	}
	var req hotNewsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SetHotNewsPriority(c.Request.Context(), id, req.Priority); err != nil {
		fail(c, "[admin][hotnews]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminNewsHandler) DeleteHotNews(c *gin.Context) {
	id, ok := paramID(c, "hotnews_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteHotNews(c.Request.Context(), id); err != nil {
		fail(c, "[admin][hotnews]", err)
		return
	}
	response.Success(c, nil)
}

// ===== News =====

// parseNewsFilter reads the management filters; end_time covers the whole day.
func parseNewsFilter(c *gin.Context) (models.NewsFilter, bool) {
	f := models.NewsFilter{
		Title:      strings.TrimSpace(c.Query("title")),
		AuthorName: strings.TrimSpace(c.Query("author_name")),
		TagID:      queryInt(c, "tag_id", 0),
	}
	if v := c.Query("start_time"); v != "" {
		t, err := time.ParseInLocation(filterDateLayout, v, time.Local)
		if err != nil {
			response.Error(c, response.PARAMERR, "start_time must look like 2006/01/02")
			return f, false
		}
		f.StartTime = &t
	}
	if v := c.Query("end_time"); v != "" {
		t, err := time.ParseInLocation(filterDateLayout, v, time.Local)
		if err != nil {
			response.Error(c, response.PARAMERR, "end_time must look like 2006/01/02")
			return f, false
		}
		t = t.Add(24*time.Hour - time.Second)
		f.EndTime = &t
	}
	if f.StartTime != nil && f.EndTime != nil && f.StartTime.After(*f.EndTime) {
		response.Error(c, response.PARAMERR, "start_time is after end_time")
		return f, false
	}
	return f, true
}

func (h *AdminNewsHandler) ManageNews(c *gin.Context) {
	f, ok := parseNewsFilter(c)
	if !ok {
		return
	}
	page, err := h.svc.ManageNews(c.Request.Context(), f, queryInt(c, "page", 1))
	if err != nil {
		fail(c, "[admin][news]", err)
		return
	}
	response.Success(c, page)
}

func (h *AdminNewsHandler) GetNews(c *gin.Context) {
	id, ok := paramID(c, "news_id")
	if !ok {
		return
	}
	n, err := h.svc.NewsForEdit(c.Request.Context(), id)
	if err != nil {
		fail(c, "[admin][news]", err)
		return
	}
	response.Success(c, n)
}

func (h *AdminNewsHandler) PublishNews(c *gin.Context) {
	var form models.NewsForm
	if !bindJSON(c, &form) {
		return
	}
	n, err := h.svc.PublishNews(c.Request.Context(), currentUserID(c), form)
	if err != nil {
		fail(c, "[admin][news]", err)
		return
	}
	response.Success(c, gin.H{"id": n.ID})
}

func (h *AdminNewsHandler) EditNews(c *gin.Context) {
	id, ok := paramID(c, "news_id")
	if !ok {
		return
	}
	var form models.NewsForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.svc.EditNews(c.Request.Context(), id, form); err != nil {
		fail(c, "[admin][news]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminNewsHandler) DeleteNews(c *gin.Context) {
	id, ok := paramID(c, "news_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteNews(c.Request.Context(), id); err != nil {
		fail(c, "[admin][news]", err)
		return
	}
	response.Success(c, nil)
}

// UploadImage stores a news or banner image in object storage.
func (h *AdminNewsHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image_file")
	if err != nil {
		response.Error(c, response.PARAMERR, "image_file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, "[admin][upload]", err)
		return
	}
	defer f.Close()
	url, err := h.uploads.UploadImage(c.Request.Context(), f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, "[admin][upload]", err)
		return
	}
	response.Success(c, gin.H{"image_url": url})
}

// ===== Banners =====

func (h *AdminNewsHandler) ListBanners(c *gin.Context) {
	banners, err := h.svc.Banners(c.Request.Context())
	if err != nil {
		fail(c, "[admin][banners]", err)
		return
	}
	response.Success(c, gin.H{"banners": banners})
}

func (h *AdminNewsHandler) AddBanner(c *gin.Context) {
	var form models.BannerForm
	if !bindJSON(c, &form) {
		return
	}
	b, err := h.svc.AddBanner(c.Request.Context(), form)
	if err != nil {
		fail(c, "[admin][banners]", err)
		return
	}
	response.Success(c, b)
}

func (h *AdminNewsHandler) EditBanner(c *gin.Context) {
	id, ok := paramID(c, "banner_id")
	if !ok {
		return
	}
	var form models.BannerForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.svc.EditBanner(c.Request.Context(), id, form.ImageURL, form.Priority); err != nil {
		fail(c, "[admin][banners]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminNewsHandler) DeleteBanner(c *gin.Context) {
	id, ok := paramID(c, "banner_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBanner(c.Request.Context(), id); err != nil {
		fail(c, "[admin][banners]", err)
		return
	}
	response.Success(c, nil)
}
