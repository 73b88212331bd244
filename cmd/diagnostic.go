// Copyright © 2024 The Lithium authors

package cmd

import (
	"io"

	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/diagnostic"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(), Fs: fsys}
}

// renderMessages writes the messages of a command result, one per line.
// Info messages are shown only when verbose.
func renderMessages(w io.Writer, res *command.Result) {
	if res == nil {
		return
	}
	for _, m := range res.Messages {
		if m.Level == command.Info && verbose == 0 {
			continue
		}
		_, _ = io.WriteString(w, m.String()+"\n")
	}
}
