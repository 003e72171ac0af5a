package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/service"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/response"
)

type analyticsLister interface {
	List(ctx context.Context, query dto.AnalyticsQuery) ([]models.ScheduleAnalytics, error)
}

// AnalyticsHandler exposes per-day study analytics.
type AnalyticsHandler struct {
	service analyticsLister
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// List godoc
// @Summary Schedule analytics
// @Description Planned and completed study hours per day. Defaults to the current week.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student ID (defaults to caller)"
// @Param start_date query string false "First date (YYYY-MM-DD)"
// @Param end_date query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/analytics [get]
func (h *AnalyticsHandler) List(c *gin.Context) {
	var query dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	studentID, ok := resolveStudent(c, query.StudentID)
	if !ok {
		return
	}
	query.StudentID = studentID

	rows, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
