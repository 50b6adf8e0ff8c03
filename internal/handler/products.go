package handler

import (
	"net/http"

	"github.com/kiwiiwik/snackshack-nz/internal/apierror"
	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search   query string false "Match description or exact UPC"
// @Param        category query string false "Filter by category"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.ProductListResponse
// @Router       /v1/admin/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        upc path string true "UPC code"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/products/{upc} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetProduct(c.Request.Context(), c.Param("upc"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "New product"
// @Success      201  {object} dto.ProductResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/admin/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        upc  path string                   true "UPC code"
// @Param        body body dto.UpdateProductRequest true "Fields to patch"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/products/{upc} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("upc"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Refused with 409 while ledger rows still reference the product.
// @Tags         products
// @Security     BearerAuth
// @Param        upc path string true "UPC code"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/admin/products/{upc} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("upc")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Audit godoc
// @Summary      Apply a manual stock recount
// @Description  Overwrites the tracked count with the shelf count and stamps last_audited.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        upc  path string           true "UPC code"
// @Param        body body dto.AuditRequest true "Counted units"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/products/{upc}/audit [post]
func (h *ProductsHandler) Audit(c *gin.Context) {
	var req dto.AuditRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Audit(c.Request.Context(), c.Param("upc"), req.Counted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
