// Package merkle fingerprints conversations as chains of content-addressed nodes.
// Each node's hash covers its content and its parent's hash, so two conversations
// share node hashes exactly as far as they share a message prefix.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/emscape/sparky/pkg/llm"
)

// Node represents a single content-addressed node in a conversation chain
type Node struct {
	// Hash is the content-addressed identifier (SHA-256, hex-encoded)
	Hash string `json:"hash"`

	// ParentHash links to the previous node hash.
	// This will be nil for root nodes.
	ParentHash *string `json:"parent_hash"`

	// Content is the hashable content for the node
	Content any `json:"content"`
}

// input is the canonical structure fed to the hash function.
type input struct {
	Content any    `json:"content"`
	Parent  string `json:"parent,omitempty"`
}

// NewNode creates a new node with the computed hash for the provided content
func NewNode(content any, parent *Node) *Node {
	n := &Node{
		Content: content,
	}

	if parent != nil {
		n.ParentHash = &parent.Hash
	}

	n.Hash = n.computeHash()
	return n
}

// Chain links each content value to the one before it and returns the nodes
// in order. The last node is the head of the chain.
func Chain(contents ...any) []*Node {
	nodes := make([]*Node, 0, len(contents))
	var parent *Node
	for _, c := range contents {
		n := NewNode(c, parent)
		nodes = append(nodes, n)
		parent = n
	}
	return nodes
}

// Fingerprint returns the head hash of the chain built from messages, or an
// empty string when there are no messages.
func Fingerprint(messages []llm.Message) string {
	if len(messages) == 0 {
		return ""
	}

	contents := make([]any, len(messages))
	for i, m := range messages {
		contents[i] = m
	}

	nodes := Chain(contents...)
	return nodes[len(nodes)-1].Hash
}

func (n *Node) computeHash() string {
	i := &input{
		Content: n.Content,
	}

	if n.ParentHash != nil {
		i.Parent = *n.ParentHash
	}

	// Canonical JSON encoding for deterministic hashing
	data, err := json.Marshal(i)
	if err != nil {
		panic("failed to marshal hash input: " + err.Error())
	}

	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
