package handlers

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newsportal/internal/models"
	"newsportal/internal/response"
)

var mobileParamRe = regexp.MustCompile(`^1[3-9]\d{9}$`)

type Verifier interface {
	IssueImageCaptcha(ctx context.Context, challengeID string) ([]byte, error)
	SendSmsCode(ctx context.Context, req models.SmsCodeRequest) error
	UsernameCount(ctx context.Context, username string) (int, error)
	MobileCount(ctx context.Context, mobile string) (int, error)
}

type VerifyHandler struct {
	svc Verifier
}

func NewVerifyHandler(svc Verifier) *VerifyHandler { return &VerifyHandler{svc: svc} }

// @Summary      Image captcha
// @Description  Renders a captcha for the client-chosen challenge id
// @Tags         Verify
// @Produce      png
// @Param        image_code_id  path  string  true  "UUID"
// @Success      200
// @Router       /image_codes/{image_code_id}/ [get]
func (h *VerifyHandler) ImageCode(c *gin.Context) {
	id := c.Param("image_code_id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, response.PARAMERR, "image_code_id must be a uuid")
		return
	}
	img, err := h.svc.IssueImageCaptcha(c.Request.Context(), id)
	if err != nil {
		fail(c, "[verify][image]", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", img)
}

// @Summary      Username availability
// @Tags         Verify
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  map[string]interface{}
// @Router       /usernames/{username}/ [get]
func (h *VerifyHandler) Username(c *gin.Context) {
	username := c.Param("username")
	n, err := h.svc.UsernameCount(c.Request.Context(), username)
	if err != nil {
		fail(c, "[verify][username]", err)
		return
	}
	response.Success(c, gin.H{"username": username, "count": n})
}

// @Summary      Mobile availability
// @Tags         Verify
// @Produce      json
// @Param        mobile  path  string  true  "Mobile number"
// @Success      200  {object}  map[string]interface{}
// @Router       /mobiles/{mobile}/ [get]
func (h *VerifyHandler) Mobile(c *gin.Context) {
	mobile := c.Param("mobile")
	if !mobileParamRe.MatchString(mobile) {
		response.Error(c, response.PARAMERR, "mobile number format is incorrect")
		return
	}
	n, err := h.svc.MobileCount(c.Request.Context(), mobile)
	if err != nil {
		fail(c, "[verify][mobile]", err)
		return
	}
	response.Success(c, gin.H{"mobile": mobile, "count": n})
}

// @Summary      Send SMS code
// @Description  Checks the image captcha and sends a code to the mobile number
// @Tags         Verify
// @Accept       json
// @Produce      json
// @Param        body  body  models.SmsCodeRequest  true  "Mobile, captcha text and id"
// @Success      200  {object}  map[string]interface{}
// @Router       /sms_codes/ [post]
func (h *VerifyHandler) SmsCode(c *gin.Context) {
	var req models.SmsCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SendSmsCode(c.Request.Context(), req); err != nil {
		fail(c, "[verify][sms]", err)
		return
	}
	response.JSON(c, response.OK, "sms code sent", nil)
}
