// Copyright © 2024 The Lithium authors

package runner

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCommandLine(t *testing.T) {
	got := CommandLine("lithium", Options{"std": "none", "basedir": "/p"}, "LiJavaToolRunner:methods:java.util.List")
	assert.Equal(t, "lithium -basedir='/p' -std='none' LiJavaToolRunner:methods:java.util.List", got)
	assert.Equal(t, "lithium run", CommandLine("lithium", nil, "run"))

	merged := Options{"a": "1", "b": "2"}.Merge(Options{"b": "3"})
	assert.Equal(t, Options{"a": "1", "b": "3"}, merged)
}

func withTracer(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
	})
	return exporter
}

func TestExec(t *testing.T) {
	exporter := withTracer(t)
	x := &Exec{Tool: "echo"}

	lines, err := Run(context.Background(), x, "one; echo two 1>&2", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, lines)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "lithium.exec", spans[0].Name)
}

func TestExecFailure(t *testing.T) {
	exporter := withTracer(t)
	x := &Exec{Tool: "sh -c 'echo partial; exit 3'"}

	lines, err := Run(context.Background(), x, "", nil)
	assert.Equal(t, []string{"partial"}, lines)
	var te *ToolError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, 3, te.ExitCode)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "Error", spans[0].Status.Code.String())
}

func TestExecEndOfStream(t *testing.T) {
	x := &Exec{Tool: "echo"}
	p, err := x.Start(context.Background(), "hello", nil)
	require.NoError(t, err)

	var got []Event
	for ev := range p.Events() {
		got = append(got, ev)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Line)
	assert.True(t, got[1].EOF, "stream ends with exactly one end-of-stream event")
}

func TestExecCancelReleasesProcess(t *testing.T) {
	before := runtime.NumGoroutine()
	x := &Exec{Tool: "seq"}
	ctx, cancel := context.WithCancel(context.Background())
	p, err := x.Start(ctx, "1 200000", nil)
	require.NoError(t, err)

	ev := <-p.Events()
	require.Equal(t, "1", ev.Line)
	cancel()
	_, err = Collect(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)

	closed := make(chan struct{})
	go func() {
		for range p.Events() {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream still open after cancel")
	}
	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before },
		5*time.Second, 10*time.Millisecond, "goroutines left behind after cancel")
}

func TestSessionTerminateReleasesRelay(t *testing.T) {
	before := runtime.NumGoroutine()
	s := NewSession(&Exec{Tool: "seq"})
	p, err := s.Start(context.Background(), "1 200000", nil, nil)
	require.NoError(t, err)

	ev := <-p.Events()
	require.Equal(t, "1", ev.Line)
	require.NoError(t, s.Terminate())
	assert.Equal(t, Terminated, s.State())

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before },
		5*time.Second, 10*time.Millisecond, "goroutines left behind after terminate")
}

// fakeProcess is a process driven by the test.
type fakeProcess struct {
	events     chan Event
	terminated bool
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{events: make(chan Event, 8)}
}

func (p *fakeProcess) Events() <-chan Event { return p.events }

func (p *fakeProcess) Terminate() error {
	if !p.terminated {
		p.terminated = true
		p.events <- Event{EOF: true}
		close(p.events)
	}
	return nil
}

func (p *fakeProcess) finish(lines ...string) {
	for _, l := range lines {
		p.events <- Event{Line: l}
	}
	p.events <- Event{EOF: true}
	close(p.events)
}

type fakeRunner struct {
	started []*fakeProcess
}

func (r *fakeRunner) Start(_ context.Context, _ string, _ Options) (Process, error) {
	p := newFakeProcess()
	r.started = append(r.started, p)
	return p, nil
}

func waitState(t *testing.T, s *Session, want State) {
	t.Helper()
	assert.Eventually(t, func() bool { return s.State() == want }, time.Second, time.Millisecond, "state %s", want)
}

func TestSessionLifecycle(t *testing.T) {
	r := &fakeRunner{}
	s := NewSession(r)
	assert.Equal(t, Idle, s.State())

	p, err := s.Start(context.Background(), "a", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Running, s.State())

	r.started[0].finish("x")
	lines, err := Collect(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, lines)
	waitState(t, s, Completed)

	_, err = s.Start(context.Background(), "b", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Running, s.State())
}

func TestSessionConfirm(t *testing.T) {
	r := &fakeRunner{}
	s := NewSession(r)
	_, err := s.Start(context.Background(), "a", nil, nil)
	require.NoError(t, err)

	asked := 0
	_, err = s.Start(context.Background(), "b", nil, func() bool { asked++; return false })
	assert.ErrorIs(t, err, ErrProcessAlreadyRunning)
	assert.Equal(t, 1, asked)
	assert.False(t, r.started[0].terminated, "declining leaves the running process alone")
	assert.Len(t, r.started, 1)

	_, err = s.Start(context.Background(), "b", nil, func() bool { return true })
	require.NoError(t, err)
	assert.True(t, r.started[0].terminated)
	assert.Len(t, r.started, 2)
	assert.Equal(t, Running, s.State())

	require.NoError(t, s.Terminate())
	assert.Equal(t, Terminated, s.State())
	assert.True(t, r.started[1].terminated)
}

func TestDetectHome(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/proj/.lithium", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/work/proj/src/com/acme/Main.java", nil, 0o644))

	home, ok := DetectHome(fs, "/work/proj/src/com/acme/Main.java")
	require.True(t, ok)
	assert.Equal(t, "/work/proj", home)

	_, ok = DetectHome(fs, "/other/Main.java")
	assert.False(t, ok)

	src, ok := SourceHome("/work/proj/src/com/acme/Main.java")
	require.True(t, ok)
	assert.Equal(t, "/work/proj/src", src)
}

func TestPlaceholders(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/my proj/.lithium", 0o755))
	p := NewPlaceholders(fs, "/my proj/src/A.java", "com.acme.A")

	got := p.Expand("run:{file} --home {home} --src {src_home} --ext {src_ext} {symbol}")
	assert.Equal(t, `run:"/my proj/src/A.java" --home "/my proj" --src "/my proj/src" --ext .java com.acme.A`, got)

	p = NewPlaceholders(fs, "/tmp/B.kt", "")
	assert.Equal(t, "/tmp", p.SrcHome)
	assert.Empty(t, p.Home)
}
