package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/config"
	"github.com/leapstack-labs/leapslides/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. The project
root is taken from the client's initialization request (rootUri). It
reports deck, component and CSS config errors, completes utility
classes, layouts and component tags, and offers quick fixes for
unknown layouts.`,
		Example: `  # Start LSP server (usually called by an editor)
  leapslides lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, logger)
	return server.Run()
}
