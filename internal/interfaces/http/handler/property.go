package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appproperty "github.com/nadwivedi/hostel-sub000/internal/application/property"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/dto"
)

// PropertyHandler serves /properties
type PropertyHandler struct {
	BaseHandler
	service *appproperty.PropertyService
}

// NewPropertyHandler creates a PropertyHandler
func NewPropertyHandler(service *appproperty.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Create handles POST /properties
func (h *PropertyHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appproperty.CreatePropertyRequest
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

// Get handles GET /properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
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

// List handles GET /properties
func (h *PropertyHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, size := q.page()
	result, err := h.service.List(c.Request.Context(), actor, appproperty.PropertyListFilter{Page: page, PageSize: size})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// Update handles PUT /properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appproperty.UpdatePropertyRequest
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

// Delete handles DELETE /properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
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
