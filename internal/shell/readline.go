// Package shell wires pkg/shell's core onto a real terminal: a
// chzyer/readline-backed LineSource with history and tab completion, and
// the top-level assembly that a cmd/gosh main simply calls into. This
// mirrors cobra-shell's readline.NewEx/rl.Readline() wiring, adapted from
// driving a Cobra binary to driving the gosh core.
package shell

import (
	"errors"

	"github.com/chzyer/readline"

	core "github.com/Neev4n/gosh/pkg/shell"
)

// LineSource adapts a *readline.Instance to core.LineSource, translating
// readline's Ctrl-C signal into core.ErrInterrupted (spec §4.1's "mid-
// continuation read error becomes ErrCancelled" counterpart at the
// outermost read).
type LineSource struct {
	rl *readline.Instance
}

// NewLineSource wraps an already-configured readline instance.
func NewLineSource(rl *readline.Instance) *LineSource {
	return &LineSource{rl: rl}
}

// SetPrompt satisfies core.LineSource.
func (l *LineSource) SetPrompt(prompt string) {
	l.rl.SetPrompt(prompt)
}

// ReadLine satisfies core.LineSource.
func (l *LineSource) ReadLine() (string, error) {
	line, err := l.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", core.ErrInterrupted
	}
	return line, err
}
