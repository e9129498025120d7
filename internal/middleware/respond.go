package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

var statusByKind = map[services.Kind]int{
	services.KindInvalid:      http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindForbidden:    http.StatusForbidden,
	services.KindNotFound:     http.StatusNotFound,
	services.KindInternal:     http.StatusInternalServerError,
}

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(kind services.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RespondError writes {"error": ..., "code": ...} for err. Internal causes are
// logged and never sent to the client.
func RespondError(c *gin.Context, err error) {
	se := services.AsError(err)
	status := StatusFor(se.Kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": se.Message, "code": se.Code})
}
