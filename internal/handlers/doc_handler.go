package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

type DocReader interface {
	List(ctx context.Context) ([]*models.Doc, error)
	Download(ctx context.Context, id int) (*services.DocDownload, error)
}

type CourseReader interface {
	List(ctx context.Context) ([]*models.Course, error)
	Detail(ctx context.Context, id int) (*models.Course, error)
}

type DocHandler struct {
	docs    DocReader
	courses CourseReader
}

func NewDocHandler(docs DocReader, courses CourseReader) *DocHandler {
	return &DocHandler{docs: docs, courses: courses}
}

func (h *DocHandler) ListDocs(c *gin.Context) {
	docs, err := h.docs.List(c.Request.Context())
	if err != nil {
		fail(c, "[docs][list]", err)
		return
	}
	response.Success(c, gin.H{"docs": docs})
}

// @Summary      Download a document
// @Tags         Docs
// @Produce      octet-stream
// @Param        doc_id  path  int  true  "Doc id"
// @Success      200
// @Failure      404
// @Router       /docs/{doc_id}/download/ [get]
func (h *DocHandler) Download(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("doc_id"))
	if err != nil || id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}
	dl, err := h.docs.Download(c.Request.Context(), id)
	if err != nil {
		// файлы отдаются по HTTP-статусам, не конвертом
		code, _, known := response.FromError(err)
		if !known {
			log.Printf("[docs][download] doc_id=%d: %v", id, err)
		}
		if code == response.NODATA {
			c.Status(http.StatusNotFound)
		} else {
			c.Status(http.StatusBadGateway)
		}
		return
	}
	defer dl.Body.Close()

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(dl.FileName))
	c.Header("Content-Type", dl.ContentType)
	if dl.Size >= 0 {
		c.Header("Content-Length", strconv.FormatInt(dl.Size, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, dl.Body); err != nil {
		log.Printf("[docs][download] stream doc_id=%d: %v", id, err)
	}
}

func (h *DocHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		fail(c, "[courses][list]", err)
		return
	}
	response.Success(c, gin.H{"courses": courses})
}

func (h *DocHandler) CourseDetail(c *gin.Context) {
	id, ok := paramID(c, "course_id")
	if !ok {
		return
	}
	course, err := h.courses.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, "[courses][detail]", err)
		return
	}
	response.Success(c, course)
}
