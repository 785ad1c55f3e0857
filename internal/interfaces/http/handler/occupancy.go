package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appoccupancy "github.com/nadwivedi/hostel-sub000/internal/application/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/dto"
)

// OccupancyHandler serves /occupancies
type OccupancyHandler struct {
	BaseHandler
	service *appoccupancy.Service
}

// NewOccupancyHandler creates an OccupancyHandler
func NewOccupancyHandler(service *appoccupancy.Service) *OccupancyHandler {
	return &OccupancyHandler{service: service}
}

// OccupancyQuery holds the occupancy list filters
type OccupancyQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE COMPLETED"`
	Kind   string `form:"kind" binding:"omitempty,oneof=TENANT OCCUPANCY"`
}

// Create handles POST /occupancies. Moving in also settles the first month.
func (h *OccupancyHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appoccupancy.CreateOccupancyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /occupancies/:id
func (h *OccupancyHandler) Get(c *gin.Context) {
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

// List handles GET /occupancies
func (h *OccupancyHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q OccupancyQuery
	if !h.bindQuery(c, &q) {
		return
	}
	roomID, err := optionalUUID(c, "room_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	propertyID, err := optionalUUID(c, "property_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	page, size := q.page()
	result, err := h.service.List(c.Request.Context(), actor, appoccupancy.OccupancyListFilter{
		Status:     q.Status,
		Kind:       q.Kind,
		RoomID:     roomID,
		PropertyID: propertyID,
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// Update handles PUT /occupancies/:id, including move-out and room changes
func (h *OccupancyHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appoccupancy.UpdateOccupancyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /occupancies/:id
func (h *OccupancyHandler) Delete(c *gin.Context) {
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
