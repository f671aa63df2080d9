package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/middleware"
	"github.com/noah-isme/od-portal-api/internal/service"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
	"github.com/noah-isme/od-portal-api/pkg/response"
)

// UserHandler handles self-service profile endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Get godoc
// @Summary Get user profile
// @Description Read a user profile. Callers read their own row; admins read anyone's.
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	_, isAdmin := middleware.AdminScope(c)

	user, err := h.service.Get(c.Request.Context(), c.Param("id"), claims, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// Upsert godoc
// @Summary Create or update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.UpsertUserRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /user [post]
func (h *UserHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Upsert(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}
