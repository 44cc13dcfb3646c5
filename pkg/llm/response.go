package llm

// AskResponse is returned by the gateway's HTTP surface on success.
type AskResponse struct {
	Reply string `json:"reply"`

	// ConversationHash fingerprints the assembled conversation (persona, context
	// and prompt) so callers can recognise repeated or diverging turns.
	ConversationHash string `json:"conversation_hash"`
}
