package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plbureau/labplanner-api/internal/dto"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
	"github.com/plbureau/labplanner-api/pkg/response"
)

type planningService interface {
	Generate(ctx context.Context, req dto.GeneratePlanningRequest) (*dto.PlanningResponse, error)
	Get(ctx context.Context, date string) (*dto.PlanningResponse, error)
}

// PlanningHandler wires planning generation and lookup to HTTP routes.
type PlanningHandler struct {
	planning planningService
}

// NewPlanningHandler constructs a new PlanningHandler.
func NewPlanningHandler(planning planningService) *PlanningHandler {
	return &PlanningHandler{planning: planning}
}

// Generate godoc
// @Summary Generate the planning for a date
// @Description Runs the assignment engine over the day's requests and room
// @Description catalog and replaces any planning previously stored for that date.
// @Tags Planning
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanningRequest true "Target date"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope "No requests or no rooms for that date"
// @Failure 422 {object} response.Envelope "No course could be placed"
// @Router /plannings/generate [post]
func (h *PlanningHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid planning payload"))
		return
	}
	planning, err := h.planning.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, planning, nil)
}

// Get godoc
// @Summary Get the planning for a date
// @Tags Planning
// @Produce json
// @Param date path string true "Planning date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /plannings/{date} [get]
func (h *PlanningHandler) Get(c *gin.Context) {
	planning, err := h.planning.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, planning, nil)
}
