package dto

import (
	"fieldops/internal/domain/meters"
)

// ReadingResponse returns a stored reading with the period bill it
// closed.
type ReadingResponse struct {
	Reading *meters.Reading    `json:"reading"`
	Bill    *meters.PeriodBill `json:"bill"`
}
