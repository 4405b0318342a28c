package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/service"
	"github.com/rs/zerolog"
)

// VaultHandler handles the owner's knowledge entry endpoints
type VaultHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(services *service.Services, log zerolog.Logger) *VaultHandler {
	return &VaultHandler{
		services: services,
		log:      log.With().Str("handler", "vault").Logger(),
	}
}

// ListEntries handles GET /api/vault
func (h *VaultHandler) ListEntries(c *gin.Context) {
	entries, err := h.services.Vault.ListEntries(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListEntriesByCategory handles GET /api/vault/category/:category
func (h *VaultHandler) ListEntriesByCategory(c *gin.Context) {
	category, ok := models.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	entries, err := h.services.Vault.ListEntriesByCategory(c.Request.Context(), currentUser(c).ID, category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntry handles GET /api/vault/:id
func (h *VaultHandler) GetEntry(c *gin.Context) {
	entry, err := h.services.Vault.GetEntry(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CreateEntry handles POST /api/vault
func (h *VaultHandler) CreateEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.services.Vault.CreateEntry(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry handles PUT /api/vault/:id
func (h *VaultHandler) UpdateEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.services.Vault.UpdateEntry(c.Request.Context(), currentUser(c).ID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/vault/:id
func (h *VaultHandler) DeleteEntry(c *gin.Context) {
	if err := h.services.Vault.DeleteEntry(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// StatsSummary handles GET /api/vault/stats/summary
func (h *VaultHandler) StatsSummary(c *gin.Context) {
	counts, err := h.services.Vault.Stats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ExportEntries handles GET /api/vault/export?format=ndjson|json
// Streams the owner's entries directly to the response
func (h *VaultHandler) ExportEntries(c *gin.Context) {
	format := c.Query("format")
	if format == "" {
		format = "ndjson"
	}
	if format != "ndjson" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json"})
		return
	}

	if format == "ndjson" {
		c.Header("Content-Type", "application/x-ndjson")
	} else {
		c.Header("Content-Type", "application/json")
	}
	c.Header("Content-Disposition", `attachment; filename="vault-export.`+format+`"`)

	if err := h.services.Vault.Export(c.Request.Context(), currentUser(c).ID, c.Writer, format); err != nil {
		h.log.Error().Err(err).Msg("Vault export failed")
		// Can't return error JSON after streaming has started
		return
	}
}
