// Copyright © 2024 The Lithium authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/command"
)

var (
	methodsCursor cursorFlags
	methodsEdit   editFlags
	methodsPaste  bool
	methodsHide   []string
)

var showClassMethodsCmd = &cobra.Command{
	Use:   "show-class-methods [flags] file",
	Short: "Print the methods of the class at the cursor",
	Long: `Print the method signatures of the class at the cursor, as reported by
the lithium tool. --hide drops the methods carrying a keyword (public,
static or abstract). With --paste the call text of a chosen method is
inserted at the cursor; the methods then go to stderr and the edited
source to stdout, or to the file with -w.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := &classinfo.MethodFilter{}
		for _, k := range methodsHide {
			if !contains(classinfo.MethodKeywords, k) {
				return fmt.Errorf("unknown method keyword %q", k)
			}
			filter.Toggle(k)
		}
		c, err := openContext(cmd, args[0], methodsCursor.at)
		if err != nil {
			return err
		}
		if methodsPaste {
			c.Output = cmd.ErrOrStderr()
		}
		res, err := command.ShowClassMethods(c, command.MethodsOptions{Filter: filter, Paste: methodsPaste})
		if err != nil {
			return err
		}
		if !methodsPaste {
			renderMessages(cmd.ErrOrStderr(), res)
			return nil
		}
		return finish(cmd, c, res, methodsEdit.write)
	},
}

var moduleCursor cursorFlags

var showClassModuleCmd = &cobra.Command{
	Use:   "show-class-module [flags] file",
	Short: "Print the modules providing the class at the cursor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return show(cmd, args[0], moduleCursor.at, command.ShowClassModule)
	},
}

var (
	infoCursor cursorFlags
	infoHide   []string
)

var showClassInfoCmd = &cobra.Command{
	Use:   "show-class-info [flags] file",
	Short: "Print the fields and methods of the class at the cursor",
	Long: `Print the fields and methods of the class at the cursor. Static members
come first, abstract ones next, each run ordered by name. --hide drops the
members carrying a modifier (static, abstract, public, protected or
private).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := classinfo.NewLevelFilter()
		for _, l := range infoHide {
			if !contains(classinfo.Levels, l) {
				return fmt.Errorf("unknown member level %q", l)
			}
			filter[l] = false
		}
		return show(cmd, args[0], infoCursor.at, func(c *command.Context) (*command.Result, error) {
			return command.ShowClassInfo(c, filter)
		})
	},
}

var fieldCursor cursorFlags

var showClassFieldCmd = &cobra.Command{
	Use:   "show-class-field [flags] file",
	Short: "Print the value of the constant at the cursor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return show(cmd, args[0], fieldCursor.at, command.ShowClassField)
	},
}

// show runs a command printing class metadata to stdout.
func show(cmd *cobra.Command, path, at string, fn func(*command.Context) (*command.Result, error)) error {
	c, err := openContext(cmd, path, at)
	if err != nil {
		return err
	}
	res, err := fn(c)
	if err != nil {
		return err
	}
	renderMessages(cmd.ErrOrStderr(), res)
	return nil
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(showClassMethodsCmd, showClassModuleCmd, showClassInfoCmd, showClassFieldCmd)

	methodsCursor.register(showClassMethodsCmd)
	methodsEdit.register(showClassMethodsCmd)
	showClassMethodsCmd.Flags().BoolVar(&methodsPaste, "paste", false,
		"Insert the call text of a chosen method at the cursor")
	showClassMethodsCmd.Flags().StringSliceVar(&methodsHide, "hide", nil,
		"Hide methods containing the keyword (public, static, abstract)")

	moduleCursor.register(showClassModuleCmd)

	infoCursor.register(showClassInfoCmd)
	showClassInfoCmd.Flags().StringSliceVar(&infoHide, "hide", nil,
		"Hide members with the modifier (static, abstract, public, protected, private)")

	fieldCursor.register(showClassFieldCmd)
}
