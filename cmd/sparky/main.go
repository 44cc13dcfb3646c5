package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	askcmder "github.com/emscape/sparky/cmd/sparky/ask"
	servecmder "github.com/emscape/sparky/cmd/sparky/serve"
)

const sparkyLongDesc string = `Sparky is Emily's assistant: a persona-wrapped front for an
OpenAI-compatible chat completions endpoint.

The API key is read from OPENAI_API_KEY on every request. Other
settings come from a TOML config file (see --config) and SPARKY_*
environment variables.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sparky",
		Short:        "Ask Sparky a question",
		Long:         sparkyLongDesc,
		SilenceUsage: true,
	}

	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
