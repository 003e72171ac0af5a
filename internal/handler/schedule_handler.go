package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/middleware"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/service"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/response"
)

type scheduleReader interface {
	List(ctx context.Context, query dto.ScheduleQuery) ([]models.ScheduleEntry, error)
	Weekly(ctx context.Context, query dto.WeeklyScheduleQuery) (*dto.WeeklySchedule, bool, error)
	UpdateEntry(ctx context.Context, actor service.Actor, id string, req dto.UpdateScheduleEntryRequest) (*models.ScheduleEntry, error)
	DeleteEntry(ctx context.Context, actor service.Actor, id string) error
}

type timetableExporter interface {
	Export(ctx context.Context, query dto.ExportQuery) (*service.ExportFile, error)
}

// ScheduleHandler exposes timetable read, edit and export endpoints.
type ScheduleHandler struct {
	service  scheduleReader
	exporter timetableExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService, exporter *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List schedule entries
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student ID (defaults to caller)"
// @Param start_date query string false "First date (YYYY-MM-DD)"
// @Param end_date query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	studentID, ok := resolveStudent(c, query.StudentID)
	if !ok {
		return
	}
	query.StudentID = studentID

	entries, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Weekly godoc
// @Summary Weekly schedule view
// @Description Entries of the Monday-based week containing start_date, grouped by day.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student ID (defaults to caller)"
// @Param start_date query string false "Any date inside the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/weekly [get]
func (h *ScheduleHandler) Weekly(c *gin.Context) {
	var query dto.WeeklyScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	studentID, ok := resolveStudent(c, query.StudentID)
	if !ok {
		return
	}
	query.StudentID = studentID

	view, cacheHit, err := h.service.Weekly(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, view, nil, middleware.ResponseMeta(c))
}

// UpdateEntry godoc
// @Summary Update schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param payload body dto.UpdateScheduleEntryRequest true "Entry patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/slot/{id} [put]
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	var req dto.UpdateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule entry payload"))
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// DeleteEntry godoc
// @Summary Delete schedule entry
// @Tags Schedule
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Router /schedule/slot/{id} [delete]
func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export timetable
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param student_id query string false "Student ID (defaults to caller)"
// @Param start_date query string false "First date (YYYY-MM-DD)"
// @Param end_date query string false "Last date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	studentID, ok := resolveStudent(c, query.StudentID)
	if !ok {
		return
	}
	query.StudentID = studentID

	file, err := h.exporter.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
