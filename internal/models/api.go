package models

// API request/response models shared across endpoints

// Pagination holds paging metadata for list responses
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse wraps a list payload with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// PendingPage is one page of the pending review queue. Total is the
// server-reported full pending count and may exceed len(Predictions).
type PendingPage struct {
	Predictions []PendingPrediction `json:"predictions"`
	Total       int                 `json:"total"`
}

// ApplyResult reports the outcome of a template or custom config apply
type ApplyResult struct {
	TemplateID       string        `json:"template_id,omitempty"`
	ActiveTemplateID string        `json:"active_template_id"`
	Config           RoutingConfig `json:"config"`
}
