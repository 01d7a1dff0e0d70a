package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsportal/internal/models"
	"newsportal/internal/response"
	"newsportal/internal/services"
)

// CookieOptions describe the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	accounts services.AccountService
	sessions services.SessionService
	cookie   CookieOptions
}

func NewAuthHandler(accounts services.AccountService, sessions services.SessionService, cookie CookieOptions) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "sessionid"
	}
	return &AuthHandler{accounts: accounts, sessions: sessions, cookie: cookie}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sess *services.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, sess.Token, sess.CookieMaxAge(), "/", "", h.cookie.Secure, true)
}

// @Summary      Регистрация
// @Description  Создаёт аккаунт по SMS-коду и сразу открывает сессию
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body  models.RegisterRequest  true  "Данные регистрации"
// @Success      200  {object}  map[string]interface{}
// @Router       /users/register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.accounts.CompleteRegistration(c.Request.Context(), req)
	if err != nil {
		fail(c, "[users][register]", err)
		return
	}
	h.setSessionCookie(c, reg.Session)
	response.JSON(c, response.OK, "registered", gin.H{"user_id": reg.User.ID, "username": reg.User.Username})
}

// @Summary      Вход
// @Description  Логин по имени или телефону; remember_me продлевает сессию
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body  models.LoginRequest  true  "Данные для входа"
// @Success      200  {object}  map[string]interface{}
// @Router       /users/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.accounts.Authenticate(c.Request.Context(), req.UserAccount, req.Password, req.RememberMe)
	if err != nil {
		fail(c, "[users][login]", err)
		return
	}
	sess, err := h.sessions.Start(c.Request.Context(), res.User.ID, res.Remember)
	if err != nil {
		fail(c, "[users][login]", err)
		return
	}
	h.setSessionCookie(c, sess)
	log.Printf("[users][login] user_id=%d in %s", res.User.ID, time.Since(start))
	response.JSON(c, response.OK, "logged in", gin.H{"user_id": res.User.ID, "username": res.User.Username})
}

// @Summary      Выход
// @Tags         Users
// @Success      302
// @Router       /users/logout/ [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.sessions.End(c.Request.Context(), token); err != nil {
			log.Printf("[users][logout] end session: %v", err)
		}
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/users/login/")
}
