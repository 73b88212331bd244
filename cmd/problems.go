// Copyright © 2024 The Lithium authors

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/diagnostic"
	"github.com/barmalei/lithium/runner"
)

var problemsFile string

var problemsCmd = &cobra.Command{
	Use:   "problems [flags] [path]",
	Short: "Show the problems reported by the lithium tool",
	Long: `Render the problems file written by the lithium tool as annotated source
snippets. The file is found under the project home of path (default: the
current directory) at problems.file, unless --file names it.

Exit codes:
  0  No error or warning was reported
  1  At least one error or warning was reported, or the file is unreadable`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := problemsFile
		if path == "" {
			start := "."
			if len(args) > 0 {
				start = args[0]
			}
			home, ok := runner.DetectHome(fsys, start)
			if !ok {
				return fmt.Errorf("%s: project home cannot be detected", start)
			}
			path = settings.Problems.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(home, path)
			}
		}
		problems, err := classinfo.LoadProblems(fsys, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no problems file at %s", path)
			}
			return err
		}

		diags := make([]diagnostic.Diagnostic, 0, len(problems))
		failed := false
		for _, p := range problems {
			diags = append(diags, diagnostic.FromProblem(p))
			failed = failed || p.Severity() == classinfo.SeverityError
		}
		if err := newRenderer().RenderAll(cmd.OutOrStdout(), diags); err != nil {
			return err
		}
		if failed {
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(problemsCmd)
	problemsCmd.Flags().StringVar(&problemsFile, "file", "", "Problems file to render")
}
