package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/internal/application/services"
	"github.com/gridbase/backend/internal/interfaces/middleware"
)

// TableHandler serves table lifecycle endpoints
type TableHandler struct {
	tables *services.TableService
}

// NewTableHandler creates a new TableHandler
func NewTableHandler(tables *services.TableService) *TableHandler {
	return &TableHandler{tables: tables}
}

// Create handles POST /api/tables
func (h *TableHandler) Create(c *gin.Context) {
	var input services.CreateTableInput
	if !BindJSON(c, &input) {
		return
	}

	decision := middleware.Decision(c)
	ownerID := ""
	if decision != nil && decision.User != nil {
		ownerID = decision.User.ID
	}

	table, err := h.tables.CreateTable(c.Request.Context(), input, ownerID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, table)
}

// Get handles GET /api/tables/:slug. The table was already loaded by the
// access decision; serve that snapshot.
func (h *TableHandler) Get(c *gin.Context) {
	decision := middleware.Decision(c)
	if decision == nil || decision.Table == nil {
		table, err := h.tables.GetTable(c.Request.Context(), c.Param("slug"))
		if err != nil {
			RespondAppError(c, err)
			return
		}
		RespondData(c, http.StatusOK, table)
		return
	}
	RespondData(c, http.StatusOK, decision.Table)
}

// Update handles PATCH /api/tables/:slug
func (h *TableHandler) Update(c *gin.Context) {
	var input services.UpdateTableInput
	if !BindJSON(c, &input) {
		return
	}
	table, err := h.tables.UpdateTable(c.Request.Context(), c.Param("slug"), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, table)
}

// Restore handles PATCH /api/tables/:slug/restore
func (h *TableHandler) Restore(c *gin.Context) {
	table, err := h.tables.RestoreTable(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, table)
}

// Delete handles DELETE /api/tables/:slug
func (h *TableHandler) Delete(c *gin.Context) {
	if err := h.tables.DeleteTable(c.Request.Context(), c.Param("slug")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, nil)
}
