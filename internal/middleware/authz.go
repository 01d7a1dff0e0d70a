package middleware

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"newsportal/internal/authz"
	"newsportal/internal/response"
)

type PermissionLoader interface {
	Permissions(ctx context.Context, userID int) ([]string, error)
}

// RequireStaff guards the whole admin area.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Abort(c, response.SESSIONERR, "")
			return
		}
		if !u.IsStaff && !u.IsSuperuser {
			response.Abort(c, response.ROLEERR, "")
			return
		}
		c.Next()
	}
}

// RequirePermissions checks codenames granted directly or through groups.
// Superusers pass without a lookup.
func RequirePermissions(perms PermissionLoader, codenames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Abort(c, response.SESSIONERR, "")
			return
		}
		if u.IsSuperuser {
			c.Next()
			return
		}
		granted, err := perms.Permissions(c.Request.Context(), u.ID)
		if err != nil {
			log.Printf("[authz] permissions user_id=%d: %v", u.ID, err)
			response.Abort(c, response.DBERR, "")
			return
		}
		if !authz.HasAll(granted, codenames...) {
			log.Printf("[authz] denied user_id=%d need=%v", u.ID, codenames)
			response.Abort(c, response.ROLEERR, "")
			return
		}
		c.Next()
	}
}
