package handler

import (
	"net/http"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/service"

	"github.com/gin-gonic/gin"
)

type WallpapersHandler struct{ svc service.CatalogService }

func NewWallpapersHandler(svc service.CatalogService) *WallpapersHandler {
	return &WallpapersHandler{svc: svc}
}

// List godoc
// @Summary      List wallpapers
// @Tags         wallpapers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.WallpaperResponse
// @Router       /v1/admin/wallpapers [get]
func (h *WallpapersHandler) List(c *gin.Context) {
	ws, err := h.svc.ListWallpapers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

// Create godoc
// @Summary      Register a wallpaper
// @Tags         wallpapers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.WallpaperRequest true "New wallpaper"
// @Success      201  {object} dto.WallpaperResponse
// @Router       /v1/admin/wallpapers [post]
func (h *WallpapersHandler) Create(c *gin.Context) {
	var req dto.WallpaperRequest
	if !bindAndValidate(c, &req) {
		return
	}
	w, err := h.svc.CreateWallpaper(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// Activate godoc
// @Summary      Make a wallpaper the active one
// @Tags         wallpapers
// @Security     BearerAuth
// @Param        id path int true "Wallpaper ID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/wallpapers/{id}/activate [post]
func (h *WallpapersHandler) Activate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.ActivateWallpaper(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete a wallpaper
// @Tags         wallpapers
// @Security     BearerAuth
// @Param        id path int true "Wallpaper ID"
// @Success      204
// @Router       /v1/admin/wallpapers/{id} [delete]
func (h *WallpapersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteWallpaper(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
