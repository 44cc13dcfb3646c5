package servecmder

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emscape/sparky/pkg/config"
	"github.com/emscape/sparky/pkg/logger"
	"github.com/emscape/sparky/pkg/sparky"
	"github.com/emscape/sparky/server"
)

const serveLongDesc string = `Serve Sparky over HTTP.

POST /api/ask accepts {"prompt": "...", "context": [{role, content}, ...]}
and answers {"reply": "...", "conversation_hash": "..."}. The server is
stateless: clients resend prior turns with every request.

Examples:
  sparky serve
  sparky serve --listen 127.0.0.1:6060 --debug`

const serveShortDesc string = "Serve Sparky over HTTP"

type serveCommander struct {
	configPath string
	listen     string
	debug      bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides config)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	cfgPath, err := config.ResolvePath(c.configPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if c.listen != "" {
		cfg.Listen = c.listen
	}

	log := logger.NewLogger(cfg.Debug || c.debug)
	defer log.Sync()

	log.Info("sparky server starting",
		zap.String("config", cfgPath),
		zap.String("listen", cfg.Listen),
		zap.String("model", cfg.Model),
		zap.String("base_url", cfg.BaseURL),
	)

	gateway := sparky.New(append(cfg.GatewayOptions(), sparky.WithLogger(log))...)
	if !gateway.HasCredential() {
		log.Warn("no API key configured; every ask request will be refused",
			zap.String("env", sparky.CredentialEnv),
		)
	}

	srv := server.New(server.Config{ListenAddr: cfg.Listen}, gateway, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Error("sparky server failed", zap.Error(err))
		return err
	}
	return nil
}
