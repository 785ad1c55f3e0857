package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nadwivedi/hostel-sub000/internal/application/billing"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/scheduler"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/dto"
)

// JobRunner is the part of the payment scheduler exposed to admins
type JobRunner interface {
	RunGenerationNow(ctx context.Context) (*billing.ScanResult, error)
	RunRemindersNow(ctx context.Context) (*billing.ReminderResult, error)
	Stats() scheduler.Stats
}

// SchedulerHandler serves /admin/scheduler
type SchedulerHandler struct {
	BaseHandler
	runner JobRunner
}

// NewSchedulerHandler creates a SchedulerHandler
func NewSchedulerHandler(runner JobRunner) *SchedulerHandler {
	return &SchedulerHandler{runner: runner}
}

// Generate handles POST /admin/scheduler/generate
func (h *SchedulerHandler) Generate(c *gin.Context) {
	res, err := h.runner.RunGenerationNow(c.Request.Context())
	if err != nil {
		h.jobError(c, err)
		return
	}
	h.Success(c, res)
}

// Reminders handles POST /admin/scheduler/reminders
func (h *SchedulerHandler) Reminders(c *gin.Context) {
	res, err := h.runner.RunRemindersNow(c.Request.Context())
	if err != nil {
		h.jobError(c, err)
		return
	}
	h.Success(c, res)
}

// Status handles GET /admin/scheduler/status
func (h *SchedulerHandler) Status(c *gin.Context) {
	h.Success(c, h.runner.Stats())
}

func (h *SchedulerHandler) jobError(c *gin.Context, err error) {
	if errors.Is(err, scheduler.ErrJobInProgress) {
		h.Error(c, http.StatusConflict, dto.ErrCodeJobRunning, "Job is already running")
		return
	}
	h.HandleError(c, err)
}
