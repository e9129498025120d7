package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/middleware"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// bindJSON decodes the request body, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.RespondError(c, &services.Error{Kind: services.KindInvalid, Code: services.CodeInvalidInput, Message: "invalid request body", Err: err})
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for routes whose body may be omitted entirely.
func bindOptionalJSON(c *gin.Context, dst any) (present, ok bool) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return false, true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, true
		}
		middleware.RespondError(c, &services.Error{Kind: services.KindInvalid, Code: services.CodeInvalidInput, Message: "invalid request body", Err: err})
		return false, false
	}
	return true, true
}

// requestID parses the numeric :id path parameter of leave and advance routes.
func requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondError(c, &services.Error{Kind: services.KindInvalid, Code: services.CodeInvalidInput, Message: "invalid request id"})
		return 0, false
	}
	return id, true
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
