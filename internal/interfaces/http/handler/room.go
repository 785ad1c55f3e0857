package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appproperty "github.com/nadwivedi/hostel-sub000/internal/application/property"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/dto"
)

// RoomHandler serves /rooms
type RoomHandler struct {
	BaseHandler
	service *appproperty.RoomService
}

// NewRoomHandler creates a RoomHandler
func NewRoomHandler(service *appproperty.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RoomQuery holds the room list filters
type RoomQuery struct {
	ListQuery
	RentType string `form:"rent_type" binding:"omitempty,oneof=PER_ROOM PER_BED"`
}

func (h *RoomHandler) filter(c *gin.Context) (appproperty.RoomListFilter, bool) {
	var q RoomQuery
	if !h.bindQuery(c, &q) {
		return appproperty.RoomListFilter{}, false
	}
	propertyID, err := optionalUUID(c, "property_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return appproperty.RoomListFilter{}, false
	}
	page, size := q.page()
	return appproperty.RoomListFilter{
		PropertyID: propertyID,
		RentType:   q.RentType,
		Page:       page,
		PageSize:   size,
	}, true
}

// Create handles POST /rooms
func (h *RoomHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appproperty.CreateRoomRequest
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

// Get handles GET /rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
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

// List handles GET /rooms
func (h *RoomHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}
	result, err := h.service.List(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// ListAvailable handles GET /rooms/available
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rooms, err := h.service.ListAvailable(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rooms)
}

// Update handles PUT /rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appproperty.UpdateRoomRequest
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

// Delete handles DELETE /rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
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
