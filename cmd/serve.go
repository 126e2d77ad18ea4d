package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/folio/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus to agents over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, opts, err := loadSetup()
		if err != nil {
			return err
		}
		// Protocol traffic owns stdout; status goes to stderr.
		fmt.Fprintf(os.Stderr, "Serving %d documents over MCP stdio...\n", c.Len())
		return mcpserver.New(c, opts).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
