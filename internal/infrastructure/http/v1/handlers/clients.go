package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/clients"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// ClientHandler serves the client registry endpoints.
type ClientHandler struct {
	BaseHandler
	service *clients.Service
}

func NewClientHandler(service *clients.Service) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create handles POST /api/v1/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
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

// Update handles PUT /api/v1/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.ClientRequest
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

// Get handles GET /api/v1/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	client, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, client)
}

// List handles GET /api/v1/clients.
func (h *ClientHandler) List(c *gin.Context) {
	var q dto.ClientListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), clients.Filter{
		Search:           q.Search,
		OnlyWithContract: q.WithContract,
		OnlyWithRentals:  q.WithRentals,
		Limit:            q.Limit,
		Offset:           q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ResetQuota handles POST /api/v1/clients/:id/quota/reset. Admin only.
func (h *ClientHandler) ResetQuota(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	client, err := h.service.ResetQuota(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, client)
}

// AddSite handles POST /api/v1/clients/:id/sites.
func (h *ClientHandler) AddSite(c *gin.Context) {
	clientID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.SiteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	site, err := h.service.AddSite(c.Request.Context(), &clients.Site{
		ClientID: clientID,
		Name:     req.Name,
		Address:  req.Address,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, site.ID)
}

// RemoveSite handles DELETE /api/v1/clients/:id/sites/:siteId.
func (h *ClientHandler) RemoveSite(c *gin.Context) {
	siteID, err := strconv.ParseInt(c.Param("siteId"), 10, 64)
	if err != nil || siteID <= 0 {
		h.Error(c, apperror.NewValidation("invalid site id").WithDetail("value", c.Param("siteId")))
		return
	}

	if err := h.service.RemoveSite(c.Request.Context(), siteID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListSites handles GET /api/v1/clients/:id/sites.
func (h *ClientHandler) ListSites(c *gin.Context) {
	clientID, ok := h.ParamID(c)
	if !ok {
		return
	}

	sites, err := h.service.ListSites(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sites)
}
