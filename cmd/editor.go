// Copyright © 2024 The Lithium authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/runner"
	"github.com/barmalei/lithium/syntax"
)

// cursorFlags are shared by the commands working on a cursor.
type cursorFlags struct {
	at string
}

func (f *cursorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.at, "at", "",
		`Cursor position as LINE:COL (1-based), or LINE:COL-LINE:COL for a selection`)
}

// editFlags are shared by the commands editing a file.
type editFlags struct {
	write bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.write, "write", "w", false,
		"Write the result to the file instead of stdout")
}

// parseAt converts "LINE:COL" or "LINE:COL-LINE:COL" to a region of src.
func parseAt(src, at string) (buffer.Region, error) {
	if at == "" {
		return buffer.Region{}, fmt.Errorf("a cursor position is required (--at LINE:COL)")
	}
	from, to, isRange := strings.Cut(at, "-")
	start, err := parsePoint(src, from)
	if err != nil {
		return buffer.Region{}, err
	}
	if !isRange {
		return buffer.Region{Start: start, End: start}, nil
	}
	end, err := parsePoint(src, to)
	if err != nil {
		return buffer.Region{}, err
	}
	return buffer.NewRegion(start, end), nil
}

func parsePoint(src, s string) (buffer.Position, error) {
	ls, cs, ok := strings.Cut(s, ":")
	if !ok {
		cs = "1"
	}
	line, err := strconv.Atoi(ls)
	if err != nil || line < 1 {
		return 0, fmt.Errorf("invalid line %q", ls)
	}
	col, err := strconv.Atoi(cs)
	if err != nil || col < 1 {
		return 0, fmt.Errorf("invalid column %q", cs)
	}
	return buffer.PointAt(src, line-1, col-1)
}

// openContext reads and tags path and builds the command context of it.
// An empty at leaves the selection empty.
func openContext(cmd *cobra.Command, path, at string) (*command.Context, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	src := string(data)
	text, err := syntax.Tag(cmdContext(cmd), path, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c := &command.Context{
		Ctx:     cmdContext(cmd),
		Buffer:  text,
		Config:  settings,
		Runner:  newRunner(),
		Fs:      fsys,
		Output:  cmd.OutOrStdout(),
		Choose:  newChooser(cmd.ErrOrStderr()),
		Confirm: newConfirm(cmd.ErrOrStderr()),
	}
	if at != "" {
		r, err := parseAt(src, at)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		c.Selection = []buffer.Region{r}
	}
	return c, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// finish applies the edits of res to the file of c. With write the file
// is rewritten when it changed; otherwise the edited source is printed.
func finish(cmd *cobra.Command, c *command.Context, res *command.Result, write bool) error {
	renderMessages(cmd.ErrOrStderr(), res)
	path := c.Buffer.Path()
	src := c.Buffer.Text(buffer.Region{Start: 0, End: buffer.Position(c.Buffer.Size())})
	out, err := res.Apply(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !write {
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if out == src {
		return nil
	}
	mode := os.FileMode(0o644)
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return afero.WriteFile(fsys, path, []byte(out), mode)
}

// newSession returns a session for the generic lithium command.
func newSession() *runner.Session {
	return runner.NewSession(newRunner())
}
