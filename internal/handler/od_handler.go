package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/middleware"
	"github.com/noah-isme/od-portal-api/internal/service"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
	"github.com/noah-isme/od-portal-api/pkg/response"
)

// ODHandler handles OD request lifecycle endpoints.
type ODHandler struct {
	service *service.ODService
}

// NewODHandler creates a new OD handler.
func NewODHandler(svc *service.ODService) *ODHandler {
	return &ODHandler{service: svc}
}

// Create godoc
// @Summary Submit an OD request
// @Description Submit an on-duty request for specific periods on a date. The request is created pending review.
// @Tags OD Requests
// @Accept json
// @Produce json
// @Param payload body service.CreateODRequest true "OD request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /od/request [post]
func (h *ODHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateODRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	od, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, od)
}

// History godoc
// @Summary OD request history
// @Description List a user's OD requests newest first. Users see their own history; admins see anyone's.
// @Tags OD Requests
// @Produce json
// @Param userId path string true "User ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /od/history/{userId} [get]
func (h *ODHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	_, isAdmin := middleware.AdminScope(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	requests, pagination, err := h.service.History(c.Request.Context(), c.Param("userId"), claims, isAdmin, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, pagination)
}

// Pending godoc
// @Summary Pending review queue
// @Description List pending OD requests joined with requester name/email, scoped to the admin's department.
// @Tags OD Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /od/pending [get]
func (h *ODHandler) Pending(c *gin.Context) {
	scope, _ := middleware.AdminScope(c)

	requests, err := h.service.Pending(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// Review godoc
// @Summary Review an OD request
// @Description Approve or reject a pending request. A request already reviewed yields 409.
// @Tags OD Requests
// @Accept json
// @Produce json
// @Param id path string true "OD request ID"
// @Param payload body service.ReviewODRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /od/review/{id} [put]
func (h *ODHandler) Review(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.ReviewODRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	od, err := h.service.Review(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, od, nil)
}
