// Copyright © 2024 The Lithium authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/lsp"
)

// LSPCommand creates the "lsp" cobra command.
func LSPCommand() *cobra.Command {
	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the lithium Language Server Protocol server",
		Long: `Start an LSP server for Java, Kotlin, Scala and Groovy sources.

The language server provides:
  hover          the resolved symbol with the class members or constant value
  definition     the source files declaring the class at the cursor
  formatting     sorts and groups the import block
  code actions   organize imports; source.removeUnusedImports and
                 source.validateImports when requested explicitly
  diagnostics    the problems file of the project, republished whenever
                 the lithium tool rewrites it

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  lithium lsp                           Start with stdio transport
  lithium lsp --port 7998               Start with TCP on port 7998`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := lsp.New(
				lsp.WithConfig(settings),
				lsp.WithRunner(newRunner()),
				lsp.WithFs(fsys),
			)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				fmt.Fprintf(cmd.ErrOrStderr(), "lithium LSP server listening on %s\n", addr)
				if err := srv.RunTCP(addr); err != nil {
					return fmt.Errorf("lsp server error: %w", err)
				}
				return nil
			}
			if err := srv.RunStdio(); err != nil {
				return fmt.Errorf("lsp server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
