package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nadwivedi/hostel-sub000/internal/application/billing"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/dto"
)

// maxUpcomingDays bounds the look-ahead of /payments/upcoming
const maxUpcomingDays = 90

// PaymentHandler serves /payments
type PaymentHandler struct {
	BaseHandler
	service     *billing.PaymentService
	defaultDays int
}

// NewPaymentHandler creates a PaymentHandler. defaultDays is the upcoming
// window used when the request gives none.
func NewPaymentHandler(service *billing.PaymentService, defaultDays int) *PaymentHandler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &PaymentHandler{service: service, defaultDays: defaultDays}
}

// PaymentQuery holds the payment list filters
type PaymentQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID"`
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q PaymentQuery
	if !h.bindQuery(c, &q) {
		return
	}
	occupancyID, err := optionalUUID(c, "occupancy_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	month, err := optionalInt(c, "month")
	if err != nil || (month != nil && (*month < 1 || *month > 12)) {
		h.BadRequest(c, "invalid month")
		return
	}

	page, size := q.page()
	result, err := h.service.List(c.Request.Context(), actor, billing.PaymentListFilter{
		OccupancyID: occupancyID,
		Status:      q.Status,
		Year:        year,
		Month:       month,
		Page:        page,
		PageSize:    size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// Upcoming handles GET /payments/upcoming?days=N
func (h *PaymentHandler) Upcoming(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	days := h.defaultDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxUpcomingDays {
			h.BadRequest(c, "days must be between 0 and "+strconv.Itoa(maxUpcomingDays))
			return
		}
		days = n
	}
	items, err := h.service.Upcoming(c.Request.Context(), actor, days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Overdue handles GET /payments/overdue
func (h *PaymentHandler) Overdue(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	items, err := h.service.Overdue(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkPaid handles POST /payments/:id/mark-paid. The body is optional.
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billing.MarkPaidRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.MarkPaid(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Record handles POST /payments/:id/record
func (h *PaymentHandler) Record(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billing.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.RecordPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
