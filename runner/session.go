// Copyright © 2024 The Lithium authors

package runner

import (
	"context"
	"sync"
)

// State is the lifecycle state of a Session.
type State int

const (
	Idle State = iota
	Running
	Completed
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Terminated:
		return "terminated"
	}
	return "idle"
}

// Confirm asks the user whether the running process may be terminated.
type Confirm func() bool

// Session owns at most one in-flight process of a command instance. The
// state moves idle -> running -> completed|terminated and back to idle when
// the next process starts.
type Session struct {
	runner Runner

	mu      sync.Mutex
	state   State
	current Process
}

// NewSession returns an idle session starting processes on r.
func NewSession(r Runner) *Session {
	return &Session{runner: r}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start launches command. When a process is still running, confirm decides
// whether it is terminated first; declining returns
// ErrProcessAlreadyRunning and leaves the running process untouched.
func (s *Session) Start(ctx context.Context, command string, opts Options, confirm Confirm) (Process, error) {
	s.mu.Lock()
	if s.state == Running {
		running := s.current
		s.mu.Unlock()
		if confirm == nil || !confirm() {
			return nil, ErrProcessAlreadyRunning
		}
		if err := running.Terminate(); err != nil {
			log.Warningf("terminate: %v", err)
		}
		s.mu.Lock()
		if s.current == running {
			s.state = Terminated
		}
	}
	s.state = Idle
	s.current = nil
	s.mu.Unlock()

	p, err := s.runner.Start(ctx, command, opts)
	if err != nil {
		return nil, err
	}

	h := &halting{Process: p, stop: make(chan struct{})}
	s.mu.Lock()
	s.state = Running
	s.current = h
	s.mu.Unlock()
	return &sessionProcess{Process: h, session: s, events: s.relay(h)}, nil
}

// Terminate kills the running process, if any.
func (s *Session) Terminate() error {
	s.mu.Lock()
	p := s.current
	running := s.state == Running
	if running {
		s.state = Terminated
	}
	s.mu.Unlock()
	if !running || p == nil {
		return nil
	}
	return p.Terminate()
}

// relay forwards events of p and marks the session completed at the end
// of the stream, unless p was terminated or replaced in the meantime.
func (s *Session) relay(p *halting) <-chan Event {
	out := make(chan Event, cap(p.Events()))
	go func() {
		defer close(out)
		for ev := range p.Events() {
			if ev.EOF {
				s.mu.Lock()
				if s.current == p && s.state == Running {
					s.state = Completed
				}
				s.mu.Unlock()
			}
			select {
			case out <- ev:
			case <-p.stop:
				return
			}
		}
	}()
	return out
}

// halting closes stop when the process is terminated so that a relay
// nobody reads from anymore can exit.
type halting struct {
	Process
	stop chan struct{}
	once sync.Once
}

func (p *halting) Terminate() error {
	p.once.Do(func() { close(p.stop) })
	return p.Process.Terminate()
}

type sessionProcess struct {
	Process
	session *Session
	events  <-chan Event
}

func (p *sessionProcess) Events() <-chan Event { return p.events }

func (p *sessionProcess) Terminate() error {
	p.session.mu.Lock()
	if p.session.current == p.Process && p.session.state == Running {
		p.session.state = Terminated
	}
	p.session.mu.Unlock()
	return p.Process.Terminate()
}
