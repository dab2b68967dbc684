package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/internal/application/services"
)

// MenuHandler serves navigation maintenance endpoints
type MenuHandler struct {
	menus *services.MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(menus *services.MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

// List handles GET /api/menus
func (h *MenuHandler) List(c *gin.Context) {
	menus, err := h.menus.ListMenus(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, menus)
}

// Create handles POST /api/menus
func (h *MenuHandler) Create(c *gin.Context) {
	var input services.CreateMenuInput
	if !BindJSON(c, &input) {
		return
	}
	menu, err := h.menus.CreateMenu(c.Request.Context(), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, menu)
}

// Update handles PATCH /api/menus/:id
func (h *MenuHandler) Update(c *gin.Context) {
	var input services.UpdateMenuInput
	if !BindJSON(c, &input) {
		return
	}
	menu, err := h.menus.UpdateMenu(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, menu)
}

// Delete handles DELETE /api/menus/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.menus.DeleteMenu(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondData(c, http.StatusOK, nil)
}
