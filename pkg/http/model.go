package http

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Error   string            `json:"error" example:"Invalid date format. Please use YYYY-MM-DD"`
	Details []ValidationError `json:"details,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"target_price"`
	Message string                 `json:"message,omitempty" example:"target_price is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// HealthStatus is the /healthz payload.
type HealthStatus struct {
	Status string `json:"status" example:"ok"`
}
