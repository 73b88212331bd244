// Copyright © 2024 The Lithium authors

package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/tliron/commonlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var log = commonlog.GetLogger("lithium.runner")

const tracerName = "github.com/barmalei/lithium/runner"

var errTerminated = errors.New("process terminated")

// Exec runs commands through the lithium tool in a shell, merging stdout
// and stderr into one line stream.
type Exec struct {
	// Tool is the lithium script, e.g. "lithium" or "/opt/li/lithium".
	Tool string
	// Options are passed with every command; per call options override them.
	Options Options
	// Shell defaults to "sh".
	Shell string
	// Dir is the working directory of the process.
	Dir string
	// Env is appended to the current environment.
	Env []string
}

var _ Runner = (*Exec)(nil)

// Start launches the command. The context bounds the whole run: canceling
// it kills the process.
func (x *Exec) Start(ctx context.Context, command string, opts Options) (Process, error) {
	line := CommandLine(x.tool(), x.Options.Merge(opts), command)
	ctx, span := otel.GetTracerProvider().Tracer(tracerName).Start(ctx, "lithium.exec",
		trace.WithAttributes(
			attribute.String("lithium.command", command),
			attribute.String("lithium.command_line", line),
		))

	shell := x.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = x.Dir
	if len(x.Env) > 0 {
		cmd.Env = append(os.Environ(), x.Env...)
	}
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	log.Infof("exec: %s", line)
	if err := cmd.Start(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, &ToolError{Command: command, Err: err}
	}

	p := &execProcess{
		cmd:    cmd,
		events: make(chan Event, 64),
		quit:   make(chan struct{}),
	}
	go func() {
		p.done(cmd.Wait())
		_ = pw.Close()
	}()
	go p.stream(pr, command, span)
	return p, nil
}

func (x *Exec) tool() string {
	if x.Tool == "" {
		return "lithium"
	}
	return x.Tool
}

type execProcess struct {
	cmd    *exec.Cmd
	events chan Event
	// quit is closed by Terminate; the stream stops sending once it is.
	quit chan struct{}

	once    sync.Once
	mu      sync.Mutex
	waitErr error
}

func (p *execProcess) Events() <-chan Event { return p.events }

func (p *execProcess) Terminate() error {
	var err error
	p.once.Do(func() {
		close(p.quit)
		if p.cmd.Process != nil {
			err = p.cmd.Process.Kill()
			if errors.Is(err, os.ErrProcessDone) {
				err = nil
			}
		}
	})
	return err
}

func (p *execProcess) done(err error) {
	p.mu.Lock()
	p.waitErr = err
	p.mu.Unlock()
}

// send delivers ev unless the process has been terminated.
func (p *execProcess) send(ev Event) bool {
	select {
	case p.events <- ev:
		return true
	case <-p.quit:
		return false
	}
}

func (p *execProcess) stream(r *io.PipeReader, command string, span trace.Span) {
	defer close(p.events)

	n := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		n++
		if !p.send(Event{Line: sc.Text()}) {
			p.abandon(r, span, n)
			return
		}
	}
	if err := sc.Err(); err != nil {
		span.RecordError(err)
		if !p.send(Event{Err: &ToolError{Command: command, Err: err}}) {
			p.abandon(r, span, n)
			return
		}
		_, _ = io.Copy(io.Discard, r)
	}

	p.mu.Lock()
	err := p.waitErr
	p.mu.Unlock()
	span.SetAttributes(attribute.Int("lithium.lines", n))
	if err != nil {
		te := &ToolError{Command: command, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			te.ExitCode = exitErr.ExitCode()
		}
		span.RecordError(te)
		span.SetStatus(codes.Error, te.Error())
		log.Warningf("exec %s: %v", command, te)
		if !p.send(Event{Err: te}) {
			span.End()
			return
		}
	}
	span.End()
	p.send(Event{EOF: true})
}

// abandon stops reading the output of a terminated process. Closing the
// reader fails pending writes so that the process can be reaped.
func (p *execProcess) abandon(r *io.PipeReader, span trace.Span, n int) {
	_ = r.CloseWithError(errTerminated)
	span.SetAttributes(attribute.Int("lithium.lines", n))
	span.SetStatus(codes.Error, errTerminated.Error())
	span.End()
}
