package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/meters"
	"fieldops/internal/infrastructure/http/v1/dto"
	"fieldops/internal/infrastructure/metrics"
)

// MeterHandler serves the meter reading endpoints.
type MeterHandler struct {
	BaseHandler
	service *meters.Service
}

func NewMeterHandler(service *meters.Service) *MeterHandler {
	return &MeterHandler{service: service}
}

// Record handles POST /api/v1/assets/:id/readings.
func (h *MeterHandler) Record(c *gin.Context) {
	assetID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req meters.RecordInput
	if !h.BindJSON(c, &req) {
		return
	}
	req.AssetID = assetID

	reading, bill, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok {
			metrics.ReadingsRejected.WithLabelValues(appErr.Code).Inc()
		}
		h.Error(c, err)
		return
	}

	metrics.ReadingsRecorded.Inc()
	c.JSON(http.StatusCreated, dto.ReadingResponse{Reading: reading, Bill: bill})
}

// History handles GET /api/v1/assets/:id/readings.
func (h *MeterHandler) History(c *gin.Context) {
	assetID, ok := h.ParamID(c)
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", 50)

	readings, err := h.service.History(c.Request.Context(), assetID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, readings)
}
