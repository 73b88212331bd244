// Copyright © 2024 The Lithium authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"github.com/mattn/go-isatty"

	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/runner"
)

var (
	// stdin feeds the interactive prompts.
	stdin io.ReadCloser = os.Stdin
	// interactive reports whether prompts may be shown. Without a
	// terminal, choices are listed instead of asked.
	interactive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
)

// newReadline returns a line reader over stdin echoing to out.
func newReadline(out io.Writer, prompt string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt: prompt,
		Stdin:  stdin,
		Stdout: out,
		Stderr: out,
	})
}

// readLine shows prompt and reads one line from stdin.
func readLine(out io.Writer, prompt string) (string, error) {
	rl, err := newReadline(out, prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// newChooser returns a chooser listing items on out and reading the
// 1-based number of the choice. It returns nil when not interactive.
func newChooser(out io.Writer) command.Chooser {
	if !interactive() {
		return nil
	}
	return func(title string, items []string) (int, bool) {
		fmt.Fprintf(out, "%s:\n", title)
		for i, item := range items {
			fmt.Fprintf(out, "%4d  %s\n", i+1, item)
		}
		rl, err := newReadline(out, fmt.Sprintf("select [1-%d, empty cancels]: ", len(items)))
		if err != nil {
			return 0, false
		}
		defer rl.Close() //nolint:errcheck // best-effort cleanup
		for {
			line, err := rl.Readline()
			line = strings.TrimSpace(line)
			if err != nil || line == "" {
				return 0, false
			}
			n, err := strconv.Atoi(line)
			if err == nil && n >= 1 && n <= len(items) {
				return n - 1, true
			}
			fmt.Fprintf(out, "invalid choice %q\n", line)
		}
	}
}

// newConfirm returns a confirmation asking whether a running command may
// be terminated. It declines when not interactive.
func newConfirm(out io.Writer) runner.Confirm {
	return func() bool {
		if !interactive() {
			return false
		}
		line, err := readLine(out, "a command is still running, terminate it? [y/N]: ")
		if err != nil {
			return false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true
		}
		return false
	}
}
