package handler

import (
	"net/http"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.TokenService }

func NewAuthHandler(svc service.TokenService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Admin login
// @Description  Exchanges card ID + PIN for a Bearer token. Only admin accounts with a PIN can log in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
