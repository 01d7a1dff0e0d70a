package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsportal/internal/middleware"
	"newsportal/internal/response"
)

// fail renders err as an envelope; unclassified errors are logged with op.
func fail(c *gin.Context, op string, err error) {
	code, msg, known := response.FromError(err)
	if !known {
		log.Printf("%s unhandled: %v", op, err)
	}
	response.Error(c, code, msg)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.Printf("[http] bad json %s %s: %v", c.Request.Method, c.FullPath(), err)
		response.Error(c, response.PARAMERR, "invalid json body")
		return false
	}
	return true
}

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Error(c, response.PARAMERR, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// более устойчиво к мусору в query: невалидное значение = default
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func currentUserID(c *gin.Context) int {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
