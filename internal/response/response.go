// Package response renders the {"errno","errmsg","data"} JSON envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	OK         Code = "0"
	DBERR      Code = "4001"
	NODATA     Code = "4002"
	DATAEXIST  Code = "4003"
	DATAERR    Code = "4004"
	METHERR    Code = "4005"
	SMSERROR   Code = "4006"
	SMSFAIL    Code = "4007"
	SESSIONERR Code = "4101"
	LOGINERR   Code = "4102"
	PARAMERR   Code = "4103"
	USERERR    Code = "4104"
	ROLEERR    Code = "4105"
	PWDERR     Code = "4106"
	REQERR     Code = "4201"
	SERVERERR  Code = "4500"
	UNKOWNERR  Code = "4501"
)

var messages = map[Code]string{
	OK:         "success",
	DBERR:      "database query failed",
	NODATA:     "no data",
	DATAEXIST:  "data already exists",
	DATAERR:    "data error",
	METHERR:    "method error",
	SMSERROR:   "sms verification error",
	SMSFAIL:    "sms delivery failed",
	SESSIONERR: "user not logged in",
	LOGINERR:   "login failed",
	PARAMERR:   "parameter error",
	USERERR:    "user does not exist or is inactive",
	ROLEERR:    "permission denied",
	PWDERR:     "wrong password",
	REQERR:     "too many requests",
	SERVERERR:  "internal server error",
	UNKOWNERR:  "unknown error",
}

// Message returns the default text for code.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return messages[UNKOWNERR]
}

// Body builds the envelope; extra keys are merged next to errno/errmsg/data.
func Body(code Code, msg string, data interface{}, extra gin.H) gin.H {
	if msg == "" {
		msg = code.Message()
	}
	body := gin.H{
		"errno":  code,
		"errmsg": msg,
		"data":   data,
	}
	for k, v := range extra {
		if _, reserved := body[k]; reserved {
			continue
		}
		body[k] = v
	}
	return body
}

// ErrnoKey holds the last errno written, for metrics.
const ErrnoKey = "errno"

// JSON always answers 200; failures are carried in errno.
func JSON(c *gin.Context, code Code, msg string, data interface{}) {
	c.Set(ErrnoKey, string(code))
	c.JSON(http.StatusOK, Body(code, msg, data, nil))
}

// JSONWith is JSON with extra top-level keys next to data.
func JSONWith(c *gin.Context, data interface{}, extra gin.H) {
	c.Set(ErrnoKey, string(OK))
	c.JSON(http.StatusOK, Body(OK, "", data, extra))
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, OK, "", data)
}

func Error(c *gin.Context, code Code, msg string) {
	JSON(c, code, msg, nil)
}

// Abort is Error for middleware.
func Abort(c *gin.Context, code Code, msg string) {
	c.Set(ErrnoKey, string(code))
	c.AbortWithStatusJSON(http.StatusOK, Body(code, msg, nil, nil))
}
