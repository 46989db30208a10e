package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/orgspace-auth/internal/http/middleware"
	"github.com/smallbiznis/orgspace-auth/internal/service"
	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

// OrgHandler serves organisation and user retrieval endpoints. Every route
// here sits behind the auth middleware, so a missing current user is a
// programming error, not a client one.
type OrgHandler struct {
	Auth *service.AuthService
	Orgs *service.OrgService
}

// NewOrgHandler creates the handler set.
func NewOrgHandler(auth *service.AuthService, orgs *service.OrgService) *OrgHandler {
	return &OrgHandler{Auth: auth, Orgs: orgs}
}

// List handles GET /api/organisations.
func (h *OrgHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	orgs, err := h.Orgs.List(c.Request.Context(), *user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Organisations retrieved successfully", gin.H{
		"organisations": service.NewOrgViews(orgs),
	})
}

// Create handles POST /api/organisations.
func (h *OrgHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var in validation.OrganisationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c)
		return
	}

	org, err := h.Orgs.Create(c.Request.Context(), *user, in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Organisation created successfully", service.NewOrgView(org))
}

// Get handles GET /api/organisations/:orgId.
func (h *OrgHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	org, err := h.Orgs.Get(c.Request.Context(), *user, c.Param("orgId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Organisation retrieved successfully", service.NewOrgView(org))
}

// AddMember handles POST /api/organisations/:orgId/users.
func (h *OrgHandler) AddMember(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var in struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c)
		return
	}

	if err := h.Orgs.AddMember(c.Request.Context(), *user, c.Param("orgId"), in.UserID); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "User added to organisation successfully", nil)
}

// GetUser handles GET /api/users/:id.
func (h *OrgHandler) GetUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	target, err := h.Auth.GetUser(c.Request.Context(), *user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "User retrieved successfully", service.NewUserView(target))
}
