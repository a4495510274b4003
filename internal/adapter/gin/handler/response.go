package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-service/internal/adapter/gin/middleware"
	pkgerrors "clinic-service/pkg/errors"
	"clinic-service/pkg/logger"
)

const htmlContentType = "text/html; charset=utf-8"

// Renderer produces the HTML document for a named page.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

// page builds the data passed to every template.
func page(c *gin.Context, title string, extra gin.H) gin.H {
	data := gin.H{
		"Title":    title,
		"Identity": middleware.CurrentIdentity(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// render writes the named page or the matching error response.
func render(c *gin.Context, r Renderer, log *zap.Logger, name string, data gin.H) {
	body, err := r.Render(name, data)
	if err != nil {
		handleError(c, log, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, body)
}

// seeOther redirects a form submission to location.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// handleError converts usecase errors to plain-text HTTP responses.
// Typed errors keep their status and message; anything else is a 500.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	msg := pkgerrors.NewInternalError("Server error", err).Error()

	var statuser pkgerrors.HTTPStatuser
	if errors.As(err, &statuser) && statuser.StatusCode() < http.StatusInternalServerError {
		status = statuser.StatusCode()
		msg = statuser.Error()
	}

	l := logger.WithContext(c.Request.Context(), log)
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		l.Error("request failed", fields...)
	} else {
		l.Warn("request rejected", fields...)
	}

	_ = c.Error(err)
	c.String(status, msg)
}
