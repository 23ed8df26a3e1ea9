package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldops/internal/domain/tickets"
	"fieldops/internal/infrastructure/http/v1/dto"
	"fieldops/internal/infrastructure/metrics"
)

// TicketHandler serves the intervention ticket endpoints.
type TicketHandler struct {
	BaseHandler
	service *tickets.Service
}

func NewTicketHandler(service *tickets.Service) *TicketHandler {
	return &TicketHandler{service: service}
}

// Create handles POST /api/v1/tickets.
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.TicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ticket, err := req.ToModel(0)
	if err != nil {
		h.Error(c, err)
		return
	}
	if ticket.TechnicianName == "" {
		if user := h.CurrentUser(c); user != nil {
			ticket.TechnicianName = user.FullName
		}
	}

	created, err := h.service.Create(c.Request.Context(), ticket)
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.TicketsCreated.WithLabelValues(
		string(created.Category), boolLabel(created.IsContract),
	).Inc()
	c.JSON(http.StatusCreated, dto.NewTicketResponse(created))
}

// Update handles PUT /api/v1/tickets/:id.
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.TicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ticket, err := req.ToModel(id)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), ticket)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewTicketResponse(updated))
}

// Get handles GET /api/v1/tickets/:id.
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	ticket, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewTicketResponse(ticket))
}

// List handles GET /api/v1/tickets.
func (h *TicketHandler) List(c *gin.Context) {
	var q dto.TicketListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), tickets.Filter{
		ClientID: q.ClientID,
		Year:     q.Year,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
