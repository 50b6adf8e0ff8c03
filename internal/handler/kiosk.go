package handler

import (
	"net/http"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/service"
	"github.com/kiwiiwik/snackshack-nz/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "kiosk_session"

// KioskHandler serves the unauthenticated terminal API. Identity lives in
// the Redis-backed session, carried by a cookie (or X-Kiosk-Session header
// for front ends that cannot use cookies).
type KioskHandler struct {
	svc      service.KioskService
	sessions *session.Store
}

func NewKioskHandler(svc service.KioskService, sessions *session.Store) *KioskHandler {
	return &KioskHandler{svc: svc, sessions: sessions}
}

func (h *KioskHandler) token(c *gin.Context) string {
	if t, err := c.Cookie(sessionCookie); err == nil && t != "" {
		return t
	}
	return c.GetHeader("X-Kiosk-Session")
}

// withSession loads the session, runs fn, and persists whatever fn did to
// it. The token is always echoed back so a fresh terminal picks one up on
// its first request.
func (h *KioskHandler) withSession(c *gin.Context, fn func(sess *session.Session)) {
	sess, err := h.sessions.Load(c.Request.Context(), h.token(c))
	if err != nil {
		respondError(c, err)
		return
	}

	fn(sess)

	if c.IsAborted() {
		return
	}
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(sessionCookie, sess.Token, 0, "/", "", false, true)
	c.Header("X-Kiosk-Session", sess.Token)
}

// Scan godoc
// @Summary      Process a scanned or typed code
// @Description  Resolves a barcode to a login, PIN challenge, purchase, out-of-stock or not-found outcome.
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        body body dto.ScanRequest true "Scanned code"
// @Success      200  {object} dto.ScanResult
// @Failure      400  {object} apierror.APIError
// @Router       /kiosk/scan [post]
func (h *KioskHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.withSession(c, func(sess *session.Session) {
		result, err := h.svc.ProcessCode(c.Request.Context(), sess, req.Code)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// PIN godoc
// @Summary      Submit a PIN for a pending login
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        body body dto.PINRequest true "Four digit PIN"
// @Success      200  {object} dto.ScanResult
// @Failure      400  {object} apierror.APIError
// @Router       /kiosk/pin [post]
func (h *KioskHandler) PIN(c *gin.Context) {
	var req dto.PINRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.withSession(c, func(sess *session.Session) {
		result, err := h.svc.VerifyPIN(c.Request.Context(), sess, req.PIN)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// Undo godoc
// @Summary      Reverse the active user's most recent transaction
// @Tags         kiosk
// @Produce      json
// @Success      200  {object} dto.UndoResult
// @Success      204  "nothing to undo"
// @Router       /kiosk/undo [post]
func (h *KioskHandler) Undo(c *gin.Context) {
	h.withSession(c, func(sess *session.Session) {
		result, err := h.svc.Undo(c.Request.Context(), sess)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if result == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// Logout godoc
// @Summary      Drop the active identity
// @Tags         kiosk
// @Success      204
// @Router       /kiosk/logout [post]
func (h *KioskHandler) Logout(c *gin.Context) {
	h.withSession(c, func(sess *session.Session) {
		sess.Logout()
		c.Status(http.StatusNoContent)
	})
}

// State godoc
// @Summary      Kiosk main screen state
// @Description  Active user, recent user grid, quick items and wallpaper in one call.
// @Tags         kiosk
// @Produce      json
// @Success      200  {object} dto.KioskState
// @Router       /kiosk/state [get]
func (h *KioskHandler) State(c *gin.Context) {
	h.withSession(c, func(sess *session.Session) {
		state, err := h.svc.State(c.Request.Context(), sess)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, state)
	})
}
