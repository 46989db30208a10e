package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/orgspace-auth/internal/service"
	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var in validation.RegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c)
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Registration successful", gin.H{
		"accessToken":  result.AccessToken,
		"user":         service.NewUserView(result.User),
		"organisation": service.NewOrgView(result.Organisation),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var in validation.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c)
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"accessToken":   result.AccessToken,
		"user":          service.NewUserView(result.User),
		"organisations": service.NewOrgViews(result.Organisations),
	})
}
