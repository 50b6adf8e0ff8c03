package handler

import (
	"net/http"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/service"

	"github.com/gin-gonic/gin"
)

type QuickItemsHandler struct{ svc service.CatalogService }

func NewQuickItemsHandler(svc service.CatalogService) *QuickItemsHandler {
	return &QuickItemsHandler{svc: svc}
}

// List godoc
// @Summary      List quick items
// @Tags         quick-items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.QuickItemTile
// @Router       /v1/admin/quick-items [get]
func (h *QuickItemsHandler) List(c *gin.Context) {
	items, err := h.svc.ListQuickItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary      Create a quick item tile
// @Tags         quick-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.QuickItemRequest true "New tile"
// @Success      201  {object} dto.QuickItemTile
// @Router       /v1/admin/quick-items [post]
func (h *QuickItemsHandler) Create(c *gin.Context) {
	var req dto.QuickItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.CreateQuickItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary      Update a quick item tile
// @Tags         quick-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                  true "Quick item ID"
// @Param        body body dto.QuickItemRequest true "Replacement values"
// @Success      200  {object} dto.QuickItemTile
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/quick-items/{id} [put]
func (h *QuickItemsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.QuickItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.UpdateQuickItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete a quick item tile
// @Tags         quick-items
// @Security     BearerAuth
// @Param        id path int true "Quick item ID"
// @Success      204
// @Router       /v1/admin/quick-items/{id} [delete]
func (h *QuickItemsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteQuickItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
