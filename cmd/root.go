// Copyright © 2024 The Lithium authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	// registers the commonlog backend
	_ "github.com/tliron/commonlog/simple"

	"github.com/barmalei/lithium/config"
	"github.com/barmalei/lithium/runner"
)

var (
	cfgFile   string
	colorFlag string
	verbose   int

	// settings is loaded before every command runs.
	settings *config.Config
	// fsys is the file system commands read and write.
	fsys afero.Fs = afero.NewOsFs()
	// toolRunner starts lithium tool commands. Nil runs the configured
	// tool binary.
	toolRunner runner.Runner
)

// errReported is returned by commands that already printed what went
// wrong. It only sets the exit status.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lithium",
	Short: "Lithium: JVM source editing helpers",
	Long: `Lithium resolves symbols of Java, Kotlin, Scala and Groovy sources and
edits their import blocks. Class metadata comes from the lithium tool, an
external JVM program started as a subprocess.

Getting started:
  lithium resolve --at 12:9 src/com/acme/A.java      Resolve the symbol under the cursor
  lithium sort-imports -w src/com/acme/A.java        Sort and group the imports in place
  lithium validate-imports -w 'src/**/*.java'        Remove unused imports, then sort
  lithium complete-import --at 7:5 A.java            Import the class named at the cursor
  lithium show-class-info --at 7:5 A.java            Print the members of a class
  lithium goto-class --at 7:5 A.java                 Print the files declaring a class
  lithium problems                                   Show the problems reported by the tool
  lithium lsp                                        Start the language server

A project home is the folder holding a '.lithium' folder. It is passed to
the tool as the basedir option and anchors the problems file.

Settings are read from $HOME/.lithium.yaml (or --config) and LITHIUM_*
environment variables, for example LITHIUM_LITHIUM_COMMAND.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lithium.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v",
		"Increase log verbosity (-v info, -vv debug)")
}

// loadSettings reads the config file and environment, then configures
// logging. A stricter log level from the config wins over fewer -v flags.
func loadSettings(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.New(), cfgFile)
	if err != nil {
		return err
	}
	settings = cfg

	level := cfg.Log.Verbosity()
	if verbose > level {
		level = verbose
	}
	commonlog.Configure(level, nil)
	return nil
}

// newRunner returns the runner commands start the tool with.
func newRunner() runner.Runner {
	if toolRunner != nil {
		return toolRunner
	}
	return &runner.Exec{Tool: settings.Lithium.Command}
}
