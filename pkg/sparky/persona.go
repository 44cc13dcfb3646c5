package sparky

import "github.com/emscape/sparky/pkg/llm"

// Persona is Sparky's permanent system prompt. It opens every conversation.
const Persona = `You are Sparky ⚡️, Emily's professional, witty, over-40 AI assistant.
You balance formal, practical guidance with clever humor and encouragement.
You have detailed knowledge of Emily's projects, including RooFlow, the Wedding Poll app, her book "The Moon is a Harsh Prompt," and her writing process in Obsidian.
You always preserve book progress and project context.
You roast Emily with love when appropriate.`

// PersonaMessage returns the system message carrying Persona.
func PersonaMessage() llm.Message {
	return llm.Message{Role: llm.RoleSystem, Content: Persona}
}

// Assemble builds the outgoing conversation: the persona first, then prior in
// the order supplied, then prompt as the new user turn. The returned slice is
// freshly allocated; prior is neither retained nor modified.
func Assemble(prompt string, prior []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(prior)+2)
	messages = append(messages, PersonaMessage())
	messages = append(messages, prior...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	return messages
}
