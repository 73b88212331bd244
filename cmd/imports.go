// Copyright © 2024 The Lithium authors

package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/diagnostic"
	"github.com/barmalei/lithium/imports"
)

// importsCommand builds a command running fn over every file argument.
func importsCommand(use, short, long string, fn func(*command.Context) (*command.Result, error)) *cobra.Command {
	var (
		edit     editFlags
		excludes []string
	)
	cmd := &cobra.Command{
		Use:   use + " [flags] files...",
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args, excludes)
			if err != nil {
				return err
			}
			failed := false
			for _, path := range files {
				c, err := openContext(cmd, path, "")
				if err == nil {
					var res *command.Result
					if res, err = fn(c); err == nil {
						if len(files) > 1 && !edit.write {
							fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", path)
						}
						err = finish(cmd, c, res, edit.write)
					}
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	edit.register(cmd)
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Skip files matching the pattern (repeatable)")
	return cmd
}

var sortImportsCmd = importsCommand("sort-imports",
	"Sort and group the import block",
	`Sort the import statements of each file and group them by their first
package segment, one blank line between groups. Standard packages
(imports.standard_prefixes, by default java. and javax.) come first.

Examples:
  lithium sort-imports A.java              Print A.java with sorted imports
  lithium sort-imports -w src/...          Sort every source file under src
  lithium sort-imports -w 'src/**/*.kt'    Sort the Kotlin files under src`,
	command.SortImports)

var removeUnusedImportsCmd = importsCommand("remove-unused-imports",
	"Remove the imports the style checker reports as unused",
	`Run the unused import check of the lithium tool on each file and delete
the reported import lines. The project home (the folder holding '.lithium')
is passed to the tool as the basedir option.`,
	command.RemoveUnusedImports)

var validateImportsCmd = importsCommand("validate-imports",
	"Remove unused imports, then sort the import block",
	`Remove the imports reported as unused and sort the remaining ones.`,
	command.ValidateImports)

var (
	completeCursor cursorFlags
	completeEdit   editFlags
	completeOpts   command.CompleteOptions
)

var completeImportCmd = &cobra.Command{
	Use:   "complete-import [flags] file",
	Short: "Import the class named by the word at the cursor",
	Long: `Look the word at the cursor up in the class path of the project and add
an import of the class. When several classes match, the choice is asked on
a terminal and listed otherwise; candidates in the package of the file are
marked with (*).

Examples:
  lithium complete-import --at 7:12 -w A.java
  lithium complete-import --at 7:12 --inline A.java   Use the qualified name in place`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd, args[0], completeCursor.at)
		if err != nil {
			return err
		}
		res, err := command.CompleteImport(c, completeOpts)
		if err != nil {
			return err
		}
		return finish(cmd, c, res, completeEdit.write)
	},
}

var (
	importsSorted bool
	importsUnused bool
)

var importsCmd = &cobra.Command{
	Use:   "imports [flags] file",
	Short: "List the import statements of a file",
	Long: `List the import statements of a file with their line numbers.

With --sorted the block is printed the way sort-imports would write it.
With --unused the style checker of the lithium tool is run and every
unused import is reported; the exit status is 1 when there is one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importsUnused {
			return reportUnused(cmd, args[0])
		}
		data, err := afero.ReadFile(fsys, args[0])
		if err != nil {
			return err
		}
		entries := imports.Parse(string(data))
		out := cmd.OutOrStdout()
		if importsSorted {
			if len(entries) > 0 {
				fmt.Fprintln(out, imports.Render(imports.SortAndGroup(entries, settings.Imports.StandardPrefixes...)))
			}
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%d\t%s\n", e.Line, e.Statement())
		}
		return nil
	},
}

// reportUnused renders the unused imports of path.
func reportUnused(cmd *cobra.Command, path string) error {
	c, err := openContext(cmd, path, "")
	if err != nil {
		return err
	}
	unused, err := command.UnusedImports(c)
	if err != nil {
		return err
	}
	diags := make([]diagnostic.Diagnostic, len(unused))
	for i, u := range unused {
		diags[i] = diagnostic.FromUnused(path, u)
	}
	if err := newRenderer().RenderAll(cmd.OutOrStdout(), diags); err != nil {
		return err
	}
	if len(unused) > 0 {
		return errReported
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sortImportsCmd, removeUnusedImportsCmd, validateImportsCmd, completeImportCmd, importsCmd)

	completeCursor.register(completeImportCmd)
	completeEdit.register(completeImportCmd)
	completeImportCmd.Flags().BoolVar(&completeOpts.Inline, "inline", false,
		"Replace the word with the fully qualified class name")
	completeImportCmd.Flags().BoolVar(&completeOpts.AutoApply, "auto-apply", true,
		"Import a single match without asking")

	importsCmd.Flags().BoolVar(&importsSorted, "sorted", false,
		"Print the sorted and grouped import block")
	importsCmd.Flags().BoolVar(&importsUnused, "unused", false,
		"Report the imports the style checker finds unused")
	importsCmd.MarkFlagsMutuallyExclusive("sorted", "unused")
}
