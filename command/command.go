// Copyright © 2024 The Lithium authors

// Package command implements the editor commands. Every command runs
// against an explicit Context describing the buffer, the selection and the
// collaborators it may use, and returns the edits to apply together with
// the messages to show.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/config"
	"github.com/barmalei/lithium/resolver"
	"github.com/barmalei/lithium/runner"
	"github.com/barmalei/lithium/scope"
)

var log = commonlog.GetLogger("lithium.command")

var (
	// ErrNotEnabled is returned for buffers whose syntax is not enabled.
	ErrNotEnabled = errors.New("command is not enabled for this syntax")
	// ErrNothingFound is returned when a command has nothing to act on.
	ErrNothingFound = errors.New("nothing found")
	// ErrNoHome is returned when the project home cannot be detected.
	ErrNoHome = errors.New("project home cannot be detected, check that a '.lithium' folder exists in the project root")
)

// Chooser asks the user to pick one of items. It returns false when the
// user cancels.
type Chooser func(title string, items []string) (int, bool)

// Context is everything a command invocation may touch. It is owned by the
// caller and lives for one invocation.
type Context struct {
	Ctx context.Context
	// Buffer is the scope tagged buffer the command works on.
	Buffer buffer.Buffer
	// Selection holds the selected regions; an empty region is a cursor.
	Selection []buffer.Region
	Config    *config.Config
	// Runner starts lithium tool commands. It defaults to an Exec of the
	// configured tool.
	Runner runner.Runner
	// Session runs the generic lithium command.
	Session  *runner.Session
	Resolver *resolver.Resolver
	Fs       afero.Fs
	// Output receives rendered class metadata and streamed tool output.
	Output  io.Writer
	Choose  Chooser
	Confirm runner.Confirm
}

func (c *Context) ctx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

func (c *Context) fs() afero.Fs {
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return c.Fs
}

func (c *Context) resolver() *resolver.Resolver {
	if c.Resolver == nil {
		c.Resolver = resolver.New(c.fs())
	}
	return c.Resolver
}

func (c *Context) runner() runner.Runner {
	if c.Runner == nil {
		c.Runner = &runner.Exec{Tool: c.config().Lithium.Command}
	}
	return c.Runner
}

func (c *Context) output() io.Writer {
	if c.Output == nil {
		return io.Discard
	}
	return c.Output
}

// Enabled reports whether the commands apply to the buffer's syntax.
func (c *Context) Enabled() bool {
	if c.Buffer == nil {
		return false
	}
	syntax := c.Buffer.Syntax()
	return c.config().SyntaxEnabled(syntax) && scope.For(syntax) != nil
}

func (c *Context) check() error {
	if !c.Enabled() {
		if c.Buffer == nil {
			return ErrNotEnabled
		}
		return fmt.Errorf("%q: %w", c.Buffer.Syntax(), ErrNotEnabled)
	}
	return nil
}

func (c *Context) source() string {
	return c.Buffer.Text(buffer.Region{Start: 0, End: buffer.Position(c.Buffer.Size())})
}

// word returns the selected word.
func (c *Context) word() (buffer.Region, string, error) {
	switch len(c.Selection) {
	case 0:
		return buffer.Region{}, "", resolver.ErrOutOfRange
	case 1:
		return resolver.Word(c.Buffer, c.Selection[0])
	}
	return buffer.Region{}, "", resolver.ErrAmbiguousSelection
}

func (c *Context) symbol() (resolver.SymbolPath, error) {
	sym, err := c.resolver().ResolveSelection(c.Buffer, c.Selection)
	if err != nil {
		return sym, err
	}
	log.Debugf("symbol %s (origin %q)", sym, sym.Origin)
	return sym, nil
}

// classSymbol resolves the selection and requires a package.
func (c *Context) classSymbol() (resolver.SymbolPath, error) {
	sym, err := c.symbol()
	if err != nil {
		return sym, err
	}
	if sym.Package == "" || sym.Class == "" {
		return sym, fmt.Errorf("class name and package of %q cannot be detected: %w", sym.Text, ErrNothingFound)
	}
	return sym, nil
}

// options returns the configured tool options merged with extra. The
// basedir option defaults to the project home.
func (c *Context) options(extra runner.Options) (runner.Options, error) {
	opts := runner.Options(c.config().Lithium.Opts).Merge(extra)
	if _, ok := opts["basedir"]; ok {
		return opts, nil
	}
	home, ok := runner.DetectHome(c.fs(), c.Buffer.Path())
	if !ok {
		return nil, ErrNoHome
	}
	opts["basedir"] = home
	return opts, nil
}

// tool runs a lithium command and collects its output.
func (c *Context) tool(command string, extra runner.Options) ([]string, error) {
	opts, err := c.options(extra)
	if err != nil {
		return nil, err
	}
	log.Debugf("tool %s", command)
	return runner.Run(c.ctx(), c.runner(), command, opts)
}

// Level is the severity of a message.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

// Message is shown to the user after a command ran.
type Message struct {
	Level Level
	Text  string
}

func (m Message) String() string {
	return m.Level.String() + ": " + m.Text
}

// Result is the outcome of a command.
type Result struct {
	// Edits apply in order, each against the text produced by the
	// previous one.
	Edits    []buffer.Edit
	Messages []Message
}

func (r *Result) infof(format string, args ...interface{}) {
	r.Messages = append(r.Messages, Message{Level: Info, Text: fmt.Sprintf(format, args...)})
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Messages = append(r.Messages, Message{Level: Warning, Text: fmt.Sprintf(format, args...)})
}

// Apply returns src with the result's edits applied.
func (r *Result) Apply(src string) (string, error) {
	return buffer.ApplyEdits(src, r.Edits)
}

// Changed reports whether the result carries edits.
func (r *Result) Changed() bool {
	return len(r.Edits) > 0
}

// Warnings returns the text of warning and error messages.
func (r *Result) Warnings() []string {
	var out []string
	for _, m := range r.Messages {
		if m.Level >= Warning {
			out = append(out, m.Text)
		}
	}
	return out
}

func indentList(items []string) string {
	return "    " + strings.Join(items, "\n    ")
}
