package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/internal/application/services"
)

// FieldHandler serves field lifecycle endpoints under a table
type FieldHandler struct {
	fields *services.FieldService
}

// NewFieldHandler creates a new FieldHandler
func NewFieldHandler(fields *services.FieldService) *FieldHandler {
	return &FieldHandler{fields: fields}
}

// Create handles POST /api/tables/:slug/fields
func (h *FieldHandler) Create(c *gin.Context) {
	var input services.CreateFieldInput
	if !BindJSON(c, &input) {
		return
	}
	field, err := h.fields.CreateField(c.Request.Context(), c.Param("slug"), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, field)
}

// Update handles PATCH /api/tables/:slug/fields/:id
func (h *FieldHandler) Update(c *gin.Context) {
	var input services.UpdateFieldInput
	if !BindJSON(c, &input) {
		return
	}
	field, err := h.fields.UpdateField(c.Request.Context(), c.Param("slug"), c.Param("id"), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, field)
}

// Trash handles PATCH /api/tables/:slug/fields/:id/trash
func (h *FieldHandler) Trash(c *gin.Context) {
	field, err := h.fields.SendFieldToTrash(c.Request.Context(), c.Param("slug"), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, field)
}

// addCategoryRequest is the body for adding a category option
type addCategoryRequest struct {
	Label    string  `json:"label" binding:"required"`
	ParentID *string `json:"parentId"`
}

// AddCategory handles POST /api/tables/:slug/fields/:id/category
func (h *FieldHandler) AddCategory(c *gin.Context) {
	var req addCategoryRequest
	if !BindJSON(c, &req) {
		return
	}
	parentID := ""
	if req.ParentID != nil {
		parentID = *req.ParentID
	}

	node, field, err := h.fields.AddCategoryOption(c.Request.Context(), c.Param("slug"), c.Param("id"), parentID, req.Label)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{
		"node":  node,
		"field": field,
	})
}
