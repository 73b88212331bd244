// Copyright © 2024 The Lithium authors

package cmd

import (
	"bytes"
	"io"

	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/diagnostic"
)

var (
	runFile      string
	runCursor    cursorFlags
	runLocations bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] template",
	Short: "Run a lithium tool command",
	Long: `Run a lithium tool command and stream its output. The template may use
the placeholders of --file:

  {home}      project home (the folder holding '.lithium')
  {file}      the file
  {src_ext}   the file extension, with its dot
  {src_home}  the nearest ancestor folder named src
  {symbol}    the symbol resolved at --at

Paths containing spaces are double quoted.

With --locations the output is also scanned with location.patterns and
every file:line found is rendered as a source snippet on stderr.

Examples:
  lithium run --file src/com/acme/A.java 'JavaCompiler:{file}'
  lithium run --file A.java --at 7:12 'LiJavaToolRunner:classInfo:{symbol}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := &command.Context{
			Ctx:     cmdContext(cmd),
			Config:  settings,
			Runner:  newRunner(),
			Fs:      fsys,
			Output:  cmd.OutOrStdout(),
			Confirm: newConfirm(cmd.ErrOrStderr()),
			Session: newSession(),
		}
		if runFile != "" {
			fc, err := openContext(cmd, runFile, runCursor.at)
			if err != nil {
				return err
			}
			c.Buffer = fc.Buffer
			c.Selection = fc.Selection
		}
		var out bytes.Buffer
		if runLocations {
			c.Output = io.MultiWriter(c.Output, &out)
		}
		err := command.Run(c, args[0])
		if runLocations {
			if lerr := renderLocations(cmd.ErrOrStderr(), out.String()); lerr != nil && err == nil {
				err = lerr
			}
		}
		return err
	},
}

// renderLocations renders the file locations found in output.
func renderLocations(w io.Writer, output string) error {
	patterns, err := classinfo.CompilePatterns(settings.Location.Patterns)
	if err != nil {
		return err
	}
	locs := classinfo.DetectLocations(output, patterns)
	diags := make([]diagnostic.Diagnostic, len(locs))
	for i, loc := range locs {
		diags[i] = diagnostic.FromLocation(loc, diagnostic.SeverityWarning)
	}
	return newRenderer().RenderAll(w, diags)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFile, "file", "", "File the placeholders are derived from")
	runCursor.register(runCmd)
	runCmd.Flags().BoolVar(&runLocations, "locations", false,
		"Render the file locations found in the output")
}
