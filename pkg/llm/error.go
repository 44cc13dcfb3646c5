package llm

// ErrorResponse represents an error returned by the gateway's HTTP surface.
type ErrorResponse struct {
	Error string `json:"error"`
}
