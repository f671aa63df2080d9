package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/service"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
	"github.com/noah-isme/od-portal-api/pkg/response"
)

// TimingHandler handles period timing endpoints.
type TimingHandler struct {
	service *service.TimingService
}

// NewTimingHandler creates a new timing handler.
func NewTimingHandler(svc *service.TimingService) *TimingHandler {
	return &TimingHandler{service: svc}
}

// ListByYear godoc
// @Summary List period timings
// @Tags Timings
// @Produce json
// @Param year path int true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /timings/{year} [get]
func (h *TimingHandler) ListByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return
	}

	timings, err := h.service.ListByYear(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, timings, nil)
}

// Upsert godoc
// @Summary Upsert period timings
// @Description Admin bulk upsert of period timing rows.
// @Tags Timings
// @Accept json
// @Produce json
// @Param payload body service.UpsertTimingsRequest true "Timing rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/timings [post]
func (h *TimingHandler) Upsert(c *gin.Context) {
	var req service.UpsertTimingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	timings, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, timings, nil)
}
