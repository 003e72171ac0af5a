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

type routineManager interface {
	List(ctx context.Context, studentID string) ([]models.Routine, error)
	Create(ctx context.Context, req dto.CreateRoutineRequest) (*models.Routine, error)
	Update(ctx context.Context, actor service.Actor, id string, req dto.UpdateRoutineRequest) (*models.Routine, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
}

// RoutineHandler exposes routine endpoints.
type RoutineHandler struct {
	service routineManager
}

// NewRoutineHandler constructs the handler.
func NewRoutineHandler(svc *service.RoutineService) *RoutineHandler {
	return &RoutineHandler{service: svc}
}

// List godoc
// @Summary List active routines
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student ID (defaults to caller)"
// @Success 200 {object} response.Envelope
// @Router /routines [get]
func (h *RoutineHandler) List(c *gin.Context) {
	studentID, ok := resolveStudent(c, c.Query("student_id"))
	if !ok {
		return
	}
	routines, err := h.service.List(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, routines, nil)
}

// Create godoc
// @Summary Create routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateRoutineRequest true "Routine payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /routine [post]
func (h *RoutineHandler) Create(c *gin.Context) {
	var req dto.CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine payload"))
		return
	}
	studentID, ok := resolveStudent(c, req.StudentID)
	if !ok {
		return
	}
	req.StudentID = studentID

	routine, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, routine)
}

// Update godoc
// @Summary Update routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param payload body dto.UpdateRoutineRequest true "Routine patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /routine/{id} [put]
func (h *RoutineHandler) Update(c *gin.Context) {
	var req dto.UpdateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine payload"))
		return
	}
	routine, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, routine, nil)
}

// Delete godoc
// @Summary Deactivate routine
// @Tags Routines
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 204
// @Router /routine/{id} [delete]
func (h *RoutineHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
