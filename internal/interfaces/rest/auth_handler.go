package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/internal/application/services"
	"github.com/gridbase/backend/internal/interfaces/middleware"
)

// AuthHandler serves login and session endpoints
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, user)
}
