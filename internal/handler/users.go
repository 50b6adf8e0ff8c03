package handler

import (
	"net/http"
	"strconv"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/middleware"
	"github.com/kiwiiwik/snackshack-nz/internal/service"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct{ svc service.AccountService }

func NewUsersHandler(svc service.AccountService) *UsersHandler { return &UsersHandler{svc: svc} }

// List godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.UserResponse
// @Router       /v1/admin/users [get]
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary      Get one user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object} dto.UserResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/users/{id} [get]
func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateUserRequest true "New user"
// @Success      201  {object} dto.UserResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/admin/users [post]
func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                   true "User ID"
// @Param        body body dto.UpdateUserRequest true "Fields to patch"
// @Success      200  {object} dto.UserResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/users/{id} [put]
func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary      Delete a user
// @Description  Refused with 409 while ledger rows still reference the account.
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/admin/users/{id} [delete]
func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Payment godoc
// @Summary      Record a cash top-up
// @Description  Credits the balance and writes a negative ledger row with no product.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                true "User ID"
// @Param        body body dto.PaymentRequest true "Amount received"
// @Success      201  {object} dto.UserResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/users/{id}/payments [post]
func (h *UsersHandler) Payment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.svc.RecordPayment(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// History godoc
// @Summary      Recent transactions for a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "User ID"
// @Param        limit query int false "Max rows (default 100)"
// @Success      200  {array} dto.TransactionResponse
// @Router       /v1/admin/users/{id}/transactions [get]
func (h *UsersHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	txns, err := h.svc.History(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

// SetPIN godoc
// @Summary      Set a user's PIN
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id   path int               true "User ID"
// @Param        body body dto.SetPINRequest true "New PIN"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/users/{id}/pin [put]
func (h *UsersHandler) SetPIN(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SetPINRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetPIN(c.Request.Context(), id, req.PIN); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearPIN godoc
// @Summary      Remove a user's PIN
// @Description  Clearing another admin's PIN requires super admin role.
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      204
// @Failure      403  {object} apierror.APIError
// @Router       /v1/admin/users/{id}/pin [delete]
func (h *UsersHandler) ClearPIN(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.ClearPIN(c.Request.Context(), claims.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
