package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectKind string

var inspectCmd = &cobra.Command{
	Use:   "inspect [namespace]",
	Short: "List loaded documents or the selectors within one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadSetup()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for _, t := range c.Trees() {
				fmt.Fprintf(out, "%s\t%d nodes\t%d words\n", t.Namespace, t.Len(), t.WordCount())
			}
			return nil
		}

		tree, ok := c.Tree(args[0])
		if !ok {
			return fmt.Errorf("namespace %q matches no loaded document", args[0])
		}
		if inspectKind != "" {
			for _, n := range tree.NodesOfKind(inspectKind) {
				fmt.Fprintf(out, "%s\t%s\t%d words\n", n.Selector(), n.Type(), n.WordCount())
			}
			return nil
		}
		for _, sel := range tree.Selectors() {
			n, _ := tree.Lookup(sel)
			fmt.Fprintf(out, "%s\t%s\t%d words\n", sel, n.Type(), n.WordCount())
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectKind, "kind", "k", "", `Restrict to one kind key (e.g. "heading:h2", "block:code", "section")`)
	rootCmd.AddCommand(inspectCmd)
}
