// Package server exposes the sparky gateway over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emscape/sparky/pkg/llm"
	"github.com/emscape/sparky/pkg/sparky"
)

// Asker is the gateway behaviour the server depends on.
type Asker interface {
	AskWithFingerprint(ctx context.Context, prompt string, prior ...llm.Message) (string, string, error)
}

// Server is a thin HTTP front for an Asker. Like the gateway it holds no
// conversation state; clients send prior turns with every request.
type Server struct {
	config  Config
	gateway Asker
	logger  *zap.Logger
	app     *fiber.App
}

// New creates a new Server.
func New(config Config, gateway Asker, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		gateway: gateway,
		logger:  logger,
		app:     app,
	}

	app.Post("/api/ask", s.handleAsk)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down and waits for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting sparky server", zap.String("listen", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.app.Listener(ln); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down sparky server")
		err := s.app.Shutdown()
		// Shutdown only closes listeners fiber has started serving.
		_ = ln.Close()
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// handleAsk forwards a prompt and its prior turns to the gateway and returns
// the reply with the conversation fingerprint.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	startTime := time.Now()

	var req llm.AskRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Debug("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "prompt is required"})
	}

	if err := llm.ValidateAll(req.Context); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid context: " + err.Error()})
	}

	s.logger.Debug("received ask request",
		zap.Int("context_count", len(req.Context)),
		zap.String("prompt_preview", truncate(req.Prompt, 50)),
	)

	reply, hash, err := s.gateway.AskWithFingerprint(c.UserContext(), req.Prompt, req.Context...)
	if err != nil {
		s.logger.Error("assistant request failed", zap.Error(err))
		if errors.Is(err, sparky.ErrMissingCredential) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{Error: "assistant is not configured"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "assistant request failed"})
	}

	s.logger.Info("assistant replied",
		zap.String("conversation_hash", truncate(hash, 16)),
		zap.String("reply_preview", truncate(reply, 100)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(llm.AskResponse{
		Reply:            reply,
		ConversationHash: hash,
	})
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
