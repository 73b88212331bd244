// Copyright © 2024 The Lithium authors

// Package runner executes the external lithium tool and streams its output
// back as a channel of line events terminated by an end-of-stream event.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrProcessAlreadyRunning is returned when a session is asked to start a
// command while another one is in flight and the user declines to
// terminate it.
var ErrProcessAlreadyRunning = errors.New("process already running")

// ToolError reports a failed external tool invocation.
type ToolError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Event is one item of a process output stream. Exactly one event with
// EOF set is delivered, last.
type Event struct {
	Line string
	Err  error
	EOF  bool
}

// Process is a started command.
type Process interface {
	// Events streams output lines, errors and finally the end-of-stream
	// event. The channel is closed after the end-of-stream event.
	Events() <-chan Event
	// Terminate kills the process. It is safe to call more than once.
	Terminate() error
}

// Runner starts commands.
type Runner interface {
	Start(ctx context.Context, command string, opts Options) (Process, error)
}

// Options are passed to the tool as -key='value' flags.
type Options map[string]string

// Merge returns a copy of o overridden by other.
func (o Options) Merge(other Options) Options {
	out := make(Options, len(o)+len(other))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the option names in lexical order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CommandLine renders the tool invocation: tool, options in key order with
// single-quoted values, then the command.
func CommandLine(tool string, opts Options, command string) string {
	var sb strings.Builder
	sb.WriteString(tool)
	for _, k := range opts.Keys() {
		sb.WriteString(" -")
		sb.WriteString(k)
		sb.WriteString("='")
		sb.WriteString(opts[k])
		sb.WriteString("'")
	}
	sb.WriteString(" ")
	sb.WriteString(command)
	return sb.String()
}

// Collect drains p and returns its output lines. The first error event is
// returned after the stream ends.
func Collect(ctx context.Context, p Process) ([]string, error) {
	var (
		lines []string
		err   error
	)
	for {
		select {
		case <-ctx.Done():
			_ = p.Terminate()
			return lines, ctx.Err()
		case ev, ok := <-p.Events():
			if !ok || ev.EOF {
				return lines, err
			}
			if ev.Err != nil {
				if err == nil {
					err = ev.Err
				}
				continue
			}
			lines = append(lines, ev.Line)
		}
	}
}

// Run starts command on r and collects its output.
func Run(ctx context.Context, r Runner, command string, opts Options) ([]string, error) {
	p, err := r.Start(ctx, command, opts)
	if err != nil {
		return nil, err
	}
	return Collect(ctx, p)
}
