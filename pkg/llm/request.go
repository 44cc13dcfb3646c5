package llm

// AskRequest is the body accepted by the gateway's HTTP surface.
type AskRequest struct {
	Prompt  string    `json:"prompt"`            // The new user turn
	Context []Message `json:"context,omitempty"` // Prior turns, in order
}
