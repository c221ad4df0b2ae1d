package api

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	// Status is "ok" once the dataset is bound and "loading" before.
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}
