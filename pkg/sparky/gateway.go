// Package sparky is the assistant gateway: it wraps a caller's prompt and prior
// turns in Sparky's persona, sends the conversation to an OpenAI-compatible
// chat completions endpoint and returns the first reply.
//
// A Gateway holds no conversation state. Callers that want continuity pass the
// earlier turns back in on every call.
package sparky

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"go.uber.org/zap"

	"github.com/emscape/sparky/pkg/llm"
	"github.com/emscape/sparky/pkg/merkle"
)

const (
	// DefaultModel is the model identifier sent with every request.
	DefaultModel = "gpt-4-turbo"

	// DefaultBaseURL is the API root; requests go to its chat/completions path.
	DefaultBaseURL = "https://api.openai.com/v1/"
)

// Gateway sends persona-wrapped conversations to the completion endpoint.
// It is immutable after New and safe for concurrent use.
type Gateway struct {
	client     openai.Client
	model      string
	credential func() string
	logger     *zap.Logger
}

// Option configures a Gateway.
type Option func(*gatewayConfig)

type gatewayConfig struct {
	model      string
	baseURL    string
	credential func() string
	httpClient *http.Client
	logger     *zap.Logger
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(c *gatewayConfig) { c.model = model }
}

// WithBaseURL points the gateway at another OpenAI-compatible API root.
func WithBaseURL(url string) Option {
	return func(c *gatewayConfig) { c.baseURL = url }
}

// WithCredential sets the function consulted for the API key on every call.
// The default reads CredentialEnv.
func WithCredential(fn func() string) Option {
	return func(c *gatewayConfig) { c.credential = fn }
}

// WithAPIKey fixes the API key.
func WithAPIKey(key string) Option {
	return WithCredential(func() string { return key })
}

// WithHTTPClient sets the HTTP client used for the completion call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *gatewayConfig) { c.httpClient = hc }
}

// WithLogger sets the logger for debug traces. The default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(c *gatewayConfig) { c.logger = l }
}

// New creates a Gateway.
func New(opts ...Option) *Gateway {
	cfg := gatewayConfig{
		model:   DefaultModel,
		baseURL: DefaultBaseURL,
		credential: func() string {
			return os.Getenv(CredentialEnv)
		},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	// One request per Ask: the SDK would otherwise retry on 5xx and 429.
	clientOpts := []option.RequestOption{
		option.WithBaseURL(cfg.baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(cfg.httpClient))
	}

	return &Gateway{
		client:     openai.NewClient(clientOpts...),
		model:      cfg.model,
		credential: cfg.credential,
		logger:     cfg.logger,
	}
}

// HasCredential reports whether the credential source currently yields a key.
func (g *Gateway) HasCredential() bool {
	return g.credential() != ""
}

// Ask sends prompt, preceded by the persona and prior, and returns the content
// of the first completion choice.
//
// Ask makes exactly one request and never retries. It imposes no deadline of
// its own; bound it through ctx.
func (g *Gateway) Ask(ctx context.Context, prompt string, prior ...llm.Message) (string, error) {
	reply, _, err := g.AskWithFingerprint(ctx, prompt, prior...)
	return reply, err
}

// AskWithFingerprint is Ask, additionally returning the fingerprint of the
// assembled conversation. The fingerprint is empty when the call fails.
func (g *Gateway) AskWithFingerprint(ctx context.Context, prompt string, prior ...llm.Message) (string, string, error) {
	key := g.credential()
	if key == "" {
		return "", "", ErrMissingCredential
	}

	messages := Assemble(prompt, prior)
	fingerprint := merkle.Fingerprint(messages)
	startTime := time.Now()

	g.logger.Debug("asking assistant",
		zap.String("model", g.model),
		zap.Int("message_count", len(messages)),
		zap.String("conversation_hash", truncate(fingerprint, 16)),
	)

	params := openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: toOpenAIMessages(messages),
	}

	completion, err := g.client.Chat.Completions.New(ctx, params, option.WithAPIKey(key))
	if err != nil {
		return "", "", classify(err)
	}

	// choices[0].message.content must be present and non-null.
	if len(completion.Choices) == 0 {
		return "", "", ErrResponseShape
	}
	first := completion.Choices[0]
	if !first.JSON.Message.Valid() || !first.Message.JSON.Content.Valid() {
		return "", "", ErrResponseShape
	}
	reply := first.Message.Content

	g.logger.Debug("assistant replied",
		zap.String("conversation_hash", truncate(fingerprint, 16)),
		zap.Int("reply_length", len(reply)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return reply, fingerprint, nil
}

// toOpenAIMessages converts conversation messages to the SDK union type.
// System, user and assistant turns use the SDK constructors; any other role
// goes on the wire as the {role, content} pair it arrived as.
func toOpenAIMessages(msgs []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case llm.RoleUser:
			out[i] = openai.UserMessage(m.Content)
		case llm.RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		default:
			out[i] = param.Override[openai.ChatCompletionMessageParamUnion](m)
		}
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
