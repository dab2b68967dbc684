package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/internal/application/services"
	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/interfaces/middleware"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

// RowHandler serves row CRUD on a table's data collection. The collection
// handle is rebuilt per request from the table snapshot the access decision
// loaded; FIELD_GROUP tables carry no row routes of their own.
type RowHandler struct {
	collections *services.CollectionService
}

// NewRowHandler creates a new RowHandler
func NewRowHandler(collections *services.CollectionService) *RowHandler {
	return &RowHandler{collections: collections}
}

// bind resolves the request's collection handle and acting user from the
// access decision
func (h *RowHandler) bind(c *gin.Context) (*services.CollectionHandle, *models.User, bool) {
	decision := middleware.Decision(c)
	if decision == nil || decision.Table == nil {
		RespondAppError(c, errors.NewNotFoundError("table", c.Param("slug"), errors.CauseTableRequired))
		return nil, nil, false
	}
	if decision.Table.Type == constants.TableTypeFieldGroup {
		RespondAppError(c, errors.NewValidationCause(errors.CauseInvalidParameters, "field group tables have no rows"))
		return nil, nil, false
	}
	return h.collections.Bind(decision.Table), decision.User, true
}

// List handles GET /api/tables/:slug/rows
func (h *RowHandler) List(c *gin.Context) {
	handle, user, ok := h.bind(c)
	if !ok {
		return
	}

	filter := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		if key == "limit" || key == "offset" || len(values) == 0 {
			continue
		}
		filter[key] = values[0]
	}

	limit := atoiDefault(c, "limit", 50)
	offset := atoiDefault(c, "offset", 0)

	rows, err := handle.FindMany(c.Request.Context(), user, filter, limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	total, err := handle.Count(c.Request.Context(), filter)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	RespondData(c, http.StatusOK, gin.H{
		"rows":  rows,
		"total": total,
	})
}

// Get handles GET /api/tables/:slug/rows/:id
func (h *RowHandler) Get(c *gin.Context) {
	handle, user, ok := h.bind(c)
	if !ok {
		return
	}
	row, err := handle.FindOne(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, row)
}

// Create handles POST /api/tables/:slug/rows
func (h *RowHandler) Create(c *gin.Context) {
	handle, user, ok := h.bind(c)
	if !ok {
		return
	}
	var input models.Row
	if !BindJSON(c, &input) {
		return
	}
	row, err := handle.Create(c.Request.Context(), user, input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, row)
}

// Update handles PATCH /api/tables/:slug/rows/:id
func (h *RowHandler) Update(c *gin.Context) {
	handle, user, ok := h.bind(c)
	if !ok {
		return
	}
	var input models.Row
	if !BindJSON(c, &input) {
		return
	}
	row, err := handle.Update(c.Request.Context(), user, c.Param("id"), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, row)
}

// Delete handles DELETE /api/tables/:slug/rows/:id (soft delete)
func (h *RowHandler) Delete(c *gin.Context) {
	handle, _, ok := h.bind(c)
	if !ok {
		return
	}
	if err := handle.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, nil)
}
