package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

const (
	CtxUserID  = "user_id"
	CtxUser    = "user"
	CtxSession = "session"
)

type UserLoader interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

// SessionAuth resolves the session cookie when present. Requests without a
// valid session continue anonymously; RequireLogin turns them away.
func SessionAuth(sessions services.SessionService, users UserLoader, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		sess, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrSessionExpired) {
				log.Printf("[auth][session] resolve failed: %v", err)
			}
			c.Next()
			return
		}
		user, err := users.GetUserByID(c.Request.Context(), sess.UserID)
		if err != nil {
			log.Printf("[auth][session] load user_id=%d failed: %v", sess.UserID, err)
			c.Next()
			return
		}
		// отключённый аккаунт = аноним
		if user == nil || !user.IsActive {
			c.Next()
			return
		}
		c.Set(CtxUserID, user.ID)
		c.Set(CtxUser, user)
		c.Set(CtxSession, sess)
		c.Next()
	}
}

func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Abort(c, response.SESSIONERR, "")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func CurrentSession(c *gin.Context) *services.Session {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil
	}
	s, _ := v.(*services.Session)
	return s
}
