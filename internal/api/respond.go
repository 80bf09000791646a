// respond.go renders the uniform response envelope. Every endpoint returns
// {success, message, data}; errors carry no data and internal causes are never
// echoed to the client.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/apierr"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respondOK writes a success envelope.
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// respondError maps any error to the envelope. *apierr.Error values carry
// their own status and client-safe message; everything else becomes a generic
// 500 with the cause logged server-side only.
func respondError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
	}
	c.JSON(status, envelope{Success: false, Message: apierr.MessageOf(err)})
}

// respondValidation is the shortcut for request binding failures.
func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Message: message})
}
