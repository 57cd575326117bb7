package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/service"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
	"github.com/plbureau/labplanner-api/pkg/response"
)

// AvailabilityHandler exposes weekly room windows over HTTP.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs a new AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// List godoc
// @Summary List the weekly windows of a room
// @Tags Availability
// @Produce json
// @Param id path string true "Room name"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/windows [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	windows, err := h.availability.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// Create godoc
// @Summary Add a weekly window to a room
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Room name"
// @Param payload body dto.CreateRoomWindowRequest true "Window payload"
// @Success 201 {object} response.Envelope
// @Router /rooms/{id}/windows [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req dto.CreateRoomWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid window payload"))
		return
	}
	req.RoomName = c.Param("id")
	window, err := h.availability.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// Delete godoc
// @Summary Remove a weekly window
// @Tags Availability
// @Param id path string true "Room name"
// @Param wid path string true "Window ID"
// @Success 204
// @Router /rooms/{id}/windows/{wid} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	if err := h.availability.Delete(c.Request.Context(), c.Param("wid")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
