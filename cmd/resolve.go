package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/folio/internal/render"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [selector]...",
	Short: "Resolve selector queries against the document corpus",
	Long: `Resolve one or more selector queries and print the JSON envelope.

Queries without a namespace fan out across every loaded document.
Failed queries appear in the envelope's failures list with ranked
correction suggestions; any query succeeding makes the run succeed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, opts, err := loadSetup()
		if err != nil {
			return err
		}
		env := render.Resolve(c, opts, args)
		fmt.Fprintln(cmd.OutOrStdout(), render.JSON(env))
		if !env.Success {
			return fmt.Errorf("no query resolved")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
