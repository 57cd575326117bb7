package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/service"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
	"github.com/plbureau/labplanner-api/pkg/response"
)

// MaterialRequestHandler wires request intake to HTTP routes.
type MaterialRequestHandler struct {
	requests *service.MaterialRequestService
}

// NewMaterialRequestHandler constructs a new MaterialRequestHandler.
func NewMaterialRequestHandler(requests *service.MaterialRequestService) *MaterialRequestHandler {
	return &MaterialRequestHandler{requests: requests}
}

// List godoc
// @Summary List material requests
// @Tags Requests
// @Produce json
// @Param teacherId query string false "Filter by teacher"
// @Param date query string false "Filter by course date (YYYY-MM-DD)"
// @Param status query string false "Filter by status (PENDING/PLANNED/REJECTED)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *MaterialRequestHandler) List(c *gin.Context) {
	var query dto.ListMaterialRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request filters"))
		return
	}
	requests, pagination, err := h.requests.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// Get godoc
// @Summary Get request detail
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *MaterialRequestHandler) Get(c *gin.Context) {
	request, err := h.requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Create godoc
// @Summary Submit a material request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateMaterialRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope "Notice deadline passed"
// @Router /requests [post]
func (h *MaterialRequestHandler) Create(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	request, err := h.requests.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Update godoc
// @Summary Update a pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.UpdateMaterialRequest true "Request payload"
// @Success 200 {object} response.Envelope
// @Router /requests/{id} [put]
func (h *MaterialRequestHandler) Update(c *gin.Context) {
	var req dto.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	request, err := h.requests.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Delete godoc
// @Summary Withdraw a pending request
// @Tags Requests
// @Param id path string true "Request ID"
// @Success 204
// @Router /requests/{id} [delete]
func (h *MaterialRequestHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
