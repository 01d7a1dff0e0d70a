package handlers

import (
	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

// UserHandler manages accounts and permission groups in the admin area.
type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      List active users
// @Tags         Admin
// @Produce      json
// @Param        page  query  int  false  "Page"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.service.ListUsers(c.Request.Context(), queryInt(c, "page", 1))
	if err != nil {
		fail(c, "[admin][users]", err)
		return
	}
	response.Success(c, page)
}

// GetUser returns the user together with the group choices.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	u, err := h.service.UserForEdit(ctx, id)
	if err != nil {
		fail(c, "[admin][users]", err)
		return
	}
	groups, err := h.service.ListGroups(ctx)
	if err != nil {
		fail(c, "[admin][users]", err)
		return
	}
	response.Success(c, gin.H{"user": u, "groups": groups})
}

// @Summary      Edit user flags and groups
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        user_id  path  int              true  "User id"
// @Param        body     body  models.UserForm  true  "Flags and groups"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/users/{user_id}/ [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	var form models.UserForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.service.UpdateUser(c.Request.Context(), id, form); err != nil {
		fail(c, "[admin][users]", err)
		return
	}
	response.Success(c, nil)
}

// DeleteUser clears groups and deactivates the account; the row stays.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	if id == currentUserID(c) {
		response.Error(c, response.PARAMERR, "cannot delete yourself")
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		fail(c, "[admin][users]", err)
		return
	}
	response.Success(c, nil)
}

// ===== Groups =====

func (h *UserHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context())
	if err != nil {
		fail(c, "[admin][groups]", err)
		return
	}
	response.Success(c, gin.H{"groups": groups})
}

func (h *UserHandler) ListPermissions(c *gin.Context) {
	perms, err := h.service.ListPermissions(c.Request.Context())
	if err != nil {
		fail(c, "[admin][groups]", err)
		return
	}
	response.Success(c, gin.H{"permissions": perms})
}

func (h *UserHandler) GetGroup(c *gin.Context) {
	id, ok := paramID(c, "group_id")
	if !ok {
		return
	}
	g, err := h.service.GetGroup(c.Request.Context(), id)
	if err != nil {
		fail(c, "[admin][groups]", err)
		return
	}
	response.Success(c, g)
}

func (h *UserHandler) CreateGroup(c *gin.Context) {
	var form models.GroupForm
	if !bindJSON(c, &form) {
		return
	}
	id, err := h.service.CreateGroup(c.Request.Context(), form)
	if err != nil {
		fail(c, "[admin][groups]", err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (h *UserHandler) UpdateGroup(c *gin.Context) {
	id, ok := paramID(c, "group_id")
	if !ok {
		return
	}
	var form models.GroupForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.service.UpdateGroup(c.Request.Context(), id, form); err != nil {
		fail(c, "[admin][groups]", err)
		return
	}
	response.Success(c, nil)
}

func (h *UserHandler) DeleteGroup(c *gin.Context) {
	id, ok := paramID(c, "group_id")
	if !ok {
		return
	}
	if err := h.service.DeleteGroup(c.Request.Context(), id); err != nil {
		fail(c, "[admin][groups]", err)
		return
	}
	response.Success(c, nil)
}
