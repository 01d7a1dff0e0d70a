package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"newsportal/internal/repositories"
	"newsportal/internal/services"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"captcha", services.ErrCaptchaMismatch, DATAERR},
		{"rate", services.ErrRateLimited, REQERR},
		{"sms expired", services.ErrCodeMissingOrExpired, SMSERROR},
		{"sms mismatch in field", services.ValidationErrors{{Field: "sms_code", Err: services.ErrCodeMismatch}}, SMSERROR},
		{"delivery", fmt.Errorf("%w: provider down", services.ErrSmsDelivery), SMSFAIL},
		{"conflict beats mismatch", services.ValidationErrors{
			{Field: "mobile", Err: services.ErrAlreadyRegistered},
			{Field: "password_repeat", Err: services.ErrPasswordMismatch},
		}, DATAEXIST},
		{"repo conflict", fmt.Errorf("create: %w", repositories.ErrConflict), DATAEXIST},
		{"no account", services.ErrAccountNotFound, USERERR},
		{"bad password", services.ErrBadPassword, PWDERR},
		{"disabled", services.ErrAccountDisabled, LOGINERR},
		{"not found", services.ErrNotFound, NODATA},
		{"no change", services.ErrNoChange, PARAMERR},
		{"session", services.ErrSessionExpired, SESSIONERR},
		{"forbidden", services.ErrForbidden, ROLEERR},
		{"plain validation", services.ValidationErrors{{Field: "title", Err: errors.New("title is required")}}, PARAMERR},
		{"unknown", errors.New("dial tcp: refused"), UNKOWNERR},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, _ := FromError(tc.err)
			if got != tc.want {
				t.Fatalf("FromError(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestFromErrorHidesInternals(t *testing.T) {
	code, msg, known := FromError(errors.New("pq: password authentication failed"))
	if known || code != UNKOWNERR || msg != UNKOWNERR.Message() {
		t.Fatalf("unexpected classification: %s %q %v", code, msg, known)
	}
	_, msg, _ = FromError(fmt.Errorf("%w: HTTP 500 body", services.ErrSmsDelivery))
	if msg != services.ErrSmsDelivery.Error() {
		t.Fatalf("delivery detail leaked: %q", msg)
	}
}

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, PARAMERR, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["errno"] != string(PARAMERR) || body["errmsg"] != PARAMERR.Message() {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("data key missing: %v", body)
	}
}

func TestBodyKeepsReservedKeys(t *testing.T) {
	b := Body(OK, "", gin.H{"a": 1}, gin.H{"errno": "x", "total_pages": 3})
	if b["errno"] != OK || b["total_pages"] != 3 {
		t.Fatalf("unexpected body: %v", b)
	}
}
