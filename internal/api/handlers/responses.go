package handlers

// ErrorResponse for API errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse for simple confirmations
type SuccessResponse struct {
	Message string `json:"message"`
}
