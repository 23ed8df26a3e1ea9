package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/audit"
)

// AuditHandler exposes the change history of an entity.
type AuditHandler struct {
	BaseHandler
	log audit.Logger
}

func NewAuditHandler(log audit.Logger) *AuditHandler {
	return &AuditHandler{log: log}
}

// History handles GET /api/v1/audit/:entity/:id.
func (h *AuditHandler) History(c *gin.Context) {
	entity := c.Param("entity")
	if entity == "" {
		h.Error(c, apperror.NewValidation("entity type is required"))
		return
	}
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.log.ListByEntity(c.Request.Context(), entity, id, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}
