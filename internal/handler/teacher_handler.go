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

// TeacherHandler wires the teacher roster to HTTP routes.
type TeacherHandler struct {
	teachers *service.TeacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name or email"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (full_name,email,created_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	filter := models.TeacherFilter{
		Search:    strings.TrimSpace(c.Query("search")),
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
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	teachers, pagination, err := h.teachers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpdateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req dto.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Delete godoc
// @Summary Deactivate teacher
// @Tags Teachers
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.teachers.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
