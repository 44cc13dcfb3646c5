package askcmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/emscape/sparky/pkg/config"
	"github.com/emscape/sparky/pkg/llm"
	"github.com/emscape/sparky/pkg/logger"
	"github.com/emscape/sparky/pkg/sparky"
)

const askLongDesc string = `Ask Sparky a single question and print the reply.

Prior turns can be supplied with --context as a JSON or YAML list of
{role, content} objects, for example the running notes of a book in
progress. Sparky keeps nothing between runs: resupply the context
each time.

Examples:
  sparky ask "How do I stop rewriting chapter one?"
  sparky ask --context book.yaml "Summarise where we left off"
  sparky ask --timeout 30s --raw "One-line pep talk please" | pbcopy`

const askShortDesc string = "Ask Sparky a question"

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#F5C542"))

type askCommander struct {
	configPath  string
	contextPath string
	timeout     time.Duration
	raw         bool
	debug       bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&cmder.contextPath, "context", "", "JSON or YAML file of prior conversation turns")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the reply without markdown rendering")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, prompt string) error {
	cfgPath, err := config.ResolvePath(c.configPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	var prior []llm.Message
	if c.contextPath != "" {
		prior, err = config.LoadContextFile(c.contextPath)
		if err != nil {
			return err
		}
	}

	log := logger.NewLogger(cfg.Debug || c.debug)
	defer log.Sync()

	log.Debug("asking sparky",
		zap.String("config", cfgPath),
		zap.String("model", cfg.Model),
		zap.Int("context_count", len(prior)),
	)

	gateway := sparky.New(append(cfg.GatewayOptions(), sparky.WithLogger(log))...)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reply, err := gateway.Ask(ctx, prompt, prior...)
	if err != nil {
		return fmt.Errorf("sparky could not answer: %w", err)
	}

	return c.print(cmd.OutOrStdout(), reply)
}

// print writes reply to out, rendering markdown when out is a terminal.
func (c *askCommander) print(out io.Writer, reply string) error {
	width, ok := terminalWidth(out)
	if c.raw || !ok {
		_, err := fmt.Fprintln(out, reply)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("could not create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(reply)
	if err != nil {
		return fmt.Errorf("could not render reply: %w", err)
	}

	_, err = fmt.Fprintf(out, "%s\n%s", headerStyle.Render("Sparky ⚡️"), rendered)
	return err
}

// terminalWidth reports the wrap width for out, and false when out is not a
// terminal.
func terminalWidth(out io.Writer) (int, bool) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return min(width, 120), true
}
