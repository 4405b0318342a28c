package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legacy-vault-api/internal/service"
	"github.com/rs/zerolog"
)

// UserHandler handles the admin user surface and owner settings
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.services.User.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Stats handles GET /api/users/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.services.User.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// UpdateSettings handles PUT /api/users/settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		Name           *string `json:"name"`
		InactivityDays *int    `json:"inactivity_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.User.UpdateSettings(c.Request.Context(), currentUser(c).ID, req.Name, req.InactivityDays)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
