package dto

// APIResponse is the standard envelope for API endpoints
type APIResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a standard success message response
type SuccessResponse struct {
	Message string `json:"message"`
}
