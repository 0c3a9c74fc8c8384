package models

// APIError is the error payload inside every non-2xx JSON response.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// ErrorResponse wraps an APIError for the wire.
type ErrorResponse struct {
	Error APIError `json:"error"`
}
