package models

// ErrorResponse is the uniform error body for all endpoints
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Human-readable error message
	// example: Book not found
	Error string `json:"error"`
}
