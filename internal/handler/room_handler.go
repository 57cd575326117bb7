package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/service"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
	"github.com/plbureau/labplanner-api/pkg/response"
)

// RoomHandler wires the room catalog to HTTP routes.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler constructs a new RoomHandler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List godoc
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Param search query string false "Search by name"
// @Param type query string false "Filter by room type (Physique/Chimie)"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	filter := models.RoomFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Type:      c.Query("type"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	rooms, pagination, err := h.rooms.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// Get godoc
// @Summary Get room detail
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.rooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Create godoc
// @Summary Create room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Update godoc
// @Summary Update room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body dto.UpdateRoomRequest true "Room payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.rooms.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Delete godoc
// @Summary Deactivate room
// @Tags Rooms
// @Param id path string true "Room ID"
// @Success 204
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.rooms.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Import rooms from CSV
// @Tags Rooms
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Catalog CSV"
// @Success 200 {object} response.Envelope
// @Router /rooms/import [post]
func (h *RoomHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "csv file is required"))
		return
	}
	defer file.Close()

	result, err := h.rooms.ImportCSV(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
