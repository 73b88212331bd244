// Copyright © 2024 The Lithium authors

package command

import (
	"fmt"
	"strings"

	"github.com/barmalei/lithium/runner"
)

// Run interpolates template with the placeholders of the buffer and runs
// it through the session, streaming the output lines to c.Output. A
// running process is terminated first if c.Confirm agrees.
func Run(c *Context, template string) error {
	var file, symbol string
	if c.Buffer != nil {
		file = c.Buffer.Path()
		if c.Enabled() {
			if sym, err := c.symbol(); err == nil {
				symbol = sym.String()
			}
		}
	}
	ph := runner.NewPlaceholders(c.fs(), file, symbol)
	if ph.Home == "" {
		if strings.Contains(template, "{home}") {
			return ErrNoHome
		}
		log.Warningf("project home directory cannot be detected for %q", file)
	}
	command := ph.Expand(template)

	opts := runner.Options(c.config().Lithium.Opts).Merge(nil)
	if _, ok := opts["basedir"]; !ok && ph.Home != "" {
		opts["basedir"] = ph.Home
	}

	s := c.Session
	if s == nil {
		s = runner.NewSession(c.runner())
		c.Session = s
	}
	p, err := s.Start(c.ctx(), command, opts, c.Confirm)
	if err != nil {
		return err
	}
	return Stream(c, p)
}

// Stream copies the output lines of p to c.Output until the end of the
// stream and returns the first error reported.
func Stream(c *Context, p runner.Process) error {
	var first error
	w := c.output()
	for {
		select {
		case <-c.ctx().Done():
			_ = p.Terminate()
			return c.ctx().Err()
		case ev, ok := <-p.Events():
			if !ok || ev.EOF {
				return first
			}
			if ev.Err != nil {
				log.Errorf("%v", ev.Err)
				if first == nil {
					first = ev.Err
				}
				continue
			}
			if _, err := fmt.Fprintln(w, ev.Line); err != nil {
				_ = p.Terminate()
				return err
			}
		}
	}
}
