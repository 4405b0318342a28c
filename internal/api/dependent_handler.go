package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/service"
	"github.com/rs/zerolog"
)

// DependentHandler handles the relationship registry endpoints
type DependentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDependentHandler creates a new DependentHandler
func NewDependentHandler(services *service.Services, log zerolog.Logger) *DependentHandler {
	return &DependentHandler{
		services: services,
		log:      log.With().Str("handler", "dependent").Logger(),
	}
}

// ListForOwner handles GET /api/dependents
func (h *DependentHandler) ListForOwner(c *gin.Context) {
	views, err := h.services.Dependent.ListForOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// ListOwners handles GET /api/dependents/owners (who added me)
func (h *DependentHandler) ListOwners(c *gin.Context) {
	views, err := h.services.Dependent.ListForDependent(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Add handles POST /api/dependents
func (h *DependentHandler) Add(c *gin.Context) {
	var req models.AddDependentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.services.Dependent.Add(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// UpdatePermissions handles PUT /api/dependents/:id
func (h *DependentHandler) UpdatePermissions(c *gin.Context) {
	var req models.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rel, err := h.services.Dependent.UpdatePermissions(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Permissions)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

// Remove handles DELETE /api/dependents/:id
func (h *DependentHandler) Remove(c *gin.Context) {
	if err := h.services.Dependent.Remove(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dependent removed"})
}
