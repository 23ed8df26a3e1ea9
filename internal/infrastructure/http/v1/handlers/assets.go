package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldops/internal/domain/assets"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// AssetHandler serves the rental fleet endpoints.
type AssetHandler struct {
	BaseHandler
	service *assets.Service
}

func NewAssetHandler(service *assets.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// Create handles POST /api/v1/assets.
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.AssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToModel(0))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created.ID)
}

// Update handles PUT /api/v1/assets/:id.
func (h *AssetHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.AssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), req.ToModel(id))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Get handles GET /api/v1/assets/:id.
func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	asset, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, asset)
}

// ListByClient handles GET /api/v1/clients/:id/assets.
func (h *AssetHandler) ListByClient(c *gin.Context) {
	clientID, ok := h.ParamID(c)
	if !ok {
		return
	}

	result, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Delete handles DELETE /api/v1/assets/:id. Admin only.
func (h *AssetHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
