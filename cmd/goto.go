// Copyright © 2024 The Lithium authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/command"
)

var gotoCursor cursorFlags

var gotoClassCmd = &cobra.Command{
	Use:   "goto-class [flags] file",
	Short: "Print the source files declaring the class at the cursor",
	Long: `Resolve the class at the cursor and print the source files declaring it,
one per line. The project home is searched, or the source root of the file
when there is no home. Paths ignored by the project's .gitignore are
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd, args[0], gotoCursor.at)
		if err != nil {
			return err
		}
		_, files, err := command.GotoClass(c)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gotoClassCmd)
	gotoCursor.register(gotoClassCmd)
}
