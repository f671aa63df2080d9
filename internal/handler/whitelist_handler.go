package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/service"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
	"github.com/noah-isme/od-portal-api/pkg/response"
)

// WhitelistHandler handles admin whitelist management.
type WhitelistHandler struct {
	service *service.WhitelistService
}

// NewWhitelistHandler creates a new whitelist handler.
func NewWhitelistHandler(svc *service.WhitelistService) *WhitelistHandler {
	return &WhitelistHandler{service: svc}
}

// List godoc
// @Summary List whitelist entries
// @Tags Admin Whitelist
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/whitelist [get]
func (h *WhitelistHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}

// Add godoc
// @Summary Add whitelist entry
// @Tags Admin Whitelist
// @Accept json
// @Produce json
// @Param payload body service.AddWhitelistRequest true "Whitelist payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/whitelist [post]
func (h *WhitelistHandler) Add(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AddWhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	entry, err := h.service.Add(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// Remove godoc
// @Summary Remove whitelist entry
// @Tags Admin Whitelist
// @Produce json
// @Param email path string true "Email"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/whitelist/{email} [delete]
func (h *WhitelistHandler) Remove(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Remove(c.Request.Context(), c.Param("email"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
