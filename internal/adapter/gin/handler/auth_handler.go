package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-service/internal/adapter/gin/middleware"
	"clinic-service/internal/adapter/session"
	"clinic-service/internal/adapter/view"
	"clinic-service/internal/usecase/user"
	pkgerrors "clinic-service/pkg/errors"
)

const tagline = `Report symptoms, get <strong>recommendations</strong> from doctors and book appointments.`

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	MaxAge int // seconds; 0 keeps it a browser-session cookie
	Secure bool
}

// AuthHandler handles the landing page, signup, login and logout.
type AuthHandler struct {
	uc       user.Usecase
	renderer Renderer
	cookie   CookieConfig
	log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc user.Usecase, renderer Renderer, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:       uc,
		renderer: renderer,
		cookie:   cookie,
		log:      log,
	}
}

// Index handles GET /
func (h *AuthHandler) Index(c *gin.Context) {
	render(c, h.renderer, h.log, "base.html", page(c, "Home", gin.H{
		"Tagline": view.Raw(tagline),
	}))
}

// SignupForm handles GET /signup
func (h *AuthHandler) SignupForm(c *gin.Context) {
	render(c, h.renderer, h.log, "signup.html", page(c, "Sign Up", nil))
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, h.log, pkgerrors.NewValidationError("", err.Error()))
		return
	}

	if _, err := h.uc.Signup(c.Request.Context(), req); err != nil {
		handleError(c, h.log, err)
		return
	}

	seeOther(c, "/login")
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, h.renderer, h.log, "login.html", page(c, "Login", nil))
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, h.log, pkgerrors.NewValidationError("", err.Error()))
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, resp.Token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	seeOther(c, "/dashboard")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.uc.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	seeOther(c, "/")
}
