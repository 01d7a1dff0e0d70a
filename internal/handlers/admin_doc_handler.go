package handlers

import (
	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

type AdminDocHandler struct {
	docs    *services.DocService
	courses *services.CourseService
	uploads *services.UploadService
}

func NewAdminDocHandler(docs *services.DocService, courses *services.CourseService, uploads *services.UploadService) *AdminDocHandler {
	return &AdminDocHandler{docs: docs, courses: courses, uploads: uploads}
}

func (h *AdminDocHandler) ListDocs(c *gin.Context) {
	docs, err := h.docs.List(c.Request.Context())
	if err != nil {
		fail(c, "[admin][docs]", err)
		return
	}
	response.Success(c, gin.H{"docs": docs})
}

func (h *AdminDocHandler) GetDoc(c *gin.Context) {
	id, ok := paramID(c, "doc_id")
	if !ok {
		return
	}
	doc, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "[admin][docs]", err)
		return
	}
	response.Success(c, doc)
}

func (h *AdminDocHandler) PublishDoc(c *gin.Context) {
	var form models.DocForm
	if !bindJSON(c, &form) {
		return
	}
	doc, err := h.docs.Publish(c.Request.Context(), currentUserID(c), form)
	if err != nil {
		fail(c, "[admin][docs]", err)
		return
	}
	response.Success(c, gin.H{"id": doc.ID})
}

func (h *AdminDocHandler) EditDoc(c *gin.Context) {
	id, ok := paramID(c, "doc_id")
	if !ok {
		return
	}
	var form models.DocForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.docs.Edit(c.Request.Context(), id, form); err != nil {
		fail(c, "[admin][docs]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminDocHandler) DeleteDoc(c *gin.Context) {
	id, ok := paramID(c, "doc_id")
	if !ok {
		return
	}
	if err := h.docs.Delete(c.Request.Context(), id); err != nil {
		fail(c, "[admin][docs]", err)
		return
	}
	response.Success(c, nil)
}

// UploadFile stores a document under its original name.
func (h *AdminDocHandler) UploadFile(c *gin.Context) {
	fh, err := c.FormFile("text_file")
	if err != nil {
		response.Error(c, response.PARAMERR, "text_file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, "[admin][upload]", err)
		return
	}
	defer f.Close()
	url, err := h.uploads.UploadDoc(c.Request.Context(), fh.Filename, f, fh.Size)
	if err != nil {
		fail(c, "[admin][upload]", err)
		return
	}
	response.Success(c, gin.H{"text_file": url})
}

// ===== Courses =====

func (h *AdminDocHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	response.Success(c, gin.H{"courses": courses})
}

// CourseOptions feeds the teacher and category pickers.
func (h *AdminDocHandler) CourseOptions(c *gin.Context) {
	ctx := c.Request.Context()
	teachers, err := h.courses.Teachers(ctx)
	if err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	categories, err := h.courses.Categories(ctx)
	if err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	response.Success(c, gin.H{"teachers": teachers, "categories": categories})
}

func (h *AdminDocHandler) GetCourse(c *gin.Context) {
	id, ok := paramID(c, "course_id")
	if !ok {
		return
	}
	course, err := h.courses.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	response.Success(c, course)
}

func (h *AdminDocHandler) PublishCourse(c *gin.Context) {
	var form models.CourseForm
	if !bindJSON(c, &form) {
		return
	}
	course, err := h.courses.Publish(c.Request.Context(), form)
	if err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	response.Success(c, gin.H{"id": course.ID})
}

func (h *AdminDocHandler) EditCourse(c *gin.Context) {
	id, ok := paramID(c, "course_id")
	if !ok {
		return
	}
	var form models.CourseForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.courses.Edit(c.Request.Context(), id, form); err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	response.Success(c, nil)
}

func (h *AdminDocHandler) DeleteCourse(c *gin.Context) {
	id, ok := paramID(c, "course_id")
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		fail(c, "[admin][courses]", err)
		return
	}
	response.Success(c, nil)
}
