package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/service"
	"github.com/rs/zerolog"
)

// AccessHandler handles the access request workflow and the dependent's
// vault view
type AccessHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(services *service.Services, log zerolog.Logger) *AccessHandler {
	return &AccessHandler{
		services: services,
		log:      log.With().Str("handler", "access").Logger(),
	}
}

// Submit handles POST /api/access/request
func (h *AccessHandler) Submit(c *gin.Context) {
	var req models.SubmitAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.services.Access.Submit(c.Request.Context(), currentUser(c).ID, req.OwnerID, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// MyRequests handles GET /api/access/my-requests
func (h *AccessHandler) MyRequests(c *gin.Context) {
	requests, err := h.services.Access.ListForDependent(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListPending handles GET /api/access/pending
func (h *AccessHandler) ListPending(c *gin.Context) {
	requests, err := h.services.Access.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListAll handles GET /api/access/all
func (h *AccessHandler) ListAll(c *gin.Context) {
	requests, err := h.services.Access.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Approve handles POST /api/access/:id/approve
func (h *AccessHandler) Approve(c *gin.Context) {
	var req models.ProcessAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.services.Access.Approve(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.AdminNote)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Reject handles POST /api/access/:id/reject
func (h *AccessHandler) Reject(c *gin.Context) {
	var req models.ProcessAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := h.services.Access.Reject(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.AdminNote)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// ViewVault handles GET /api/access/vault/:ownerId
func (h *AccessHandler) ViewVault(c *gin.Context) {
	view, err := h.services.Vault.ViewAsDependent(c.Request.Context(), currentUser(c).ID, c.Param("ownerId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AuditLogs handles GET /api/access/logs
func (h *AccessHandler) AuditLogs(c *gin.Context) {
	logs, err := h.services.Vault.AuditTrail(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
