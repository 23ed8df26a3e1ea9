// Package dto defines the request and response shapes of the v1 API.
package dto

// IDResponse returns the identifier of a created entity.
type IDResponse struct {
	ID int64 `json:"id"`
}

// SuccessResponse is a generic acknowledgment.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListQuery carries common pagination parameters.
type ListQuery struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Search string `form:"search"`
}
