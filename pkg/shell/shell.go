// Package shell implements the gosh execution core: a multi-line input
// reader, tokenizer, variable substituter, logical/pipeline splitters, a
// redirection parser, a built-in registry, a pipeline executor that mixes
// built-ins with spawned external programs, and the REPL driver that ties
// them together with short-circuit evaluation and a scripting fallback for
// unrecognized commands.
//
// # Collaborators
//
// The core never talks to a terminal, a history file, or an embedded
// scripting language directly. It borrows them through the narrow
// interfaces in interfaces.go (LineSource, History, CompletionSource,
// ScriptEvaluator); concrete adapters live in internal/shell,
// internal/history, internal/completion, and internal/script.
//
// # Thread Safety
//
// A Shell is not safe for concurrent use; it is driven by a single REPL
// goroutine. Concurrency exists only transiently, inside one pipeline's
// external command chain.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// errLabel colors the Driver's own diagnostics (tokenize errors, "command
// not found") red, the way an interactive shell visually distinguishes its
// complaints from a spawned command's own stderr passthrough.
var errLabel = color.New(color.FgRed)

// Shell is the REPL Driver (spec §4.9): it owns the environment, the
// history and scripting collaborators, and the I/O streams segments print
// to.
type Shell struct {
	Line    LineSource
	Env     *Environment
	History History
	Script  ScriptEvaluator
	Out     io.Writer
	Err     io.Writer

	ctx *BuiltinContext
}

// New builds a Shell from its collaborators. hist and script may be nil,
// in which case the history builtin reports unavailability and the
// scripting fallback is skipped in favor of printing a plain "command not
// found".
func New(line LineSource, env *Environment, hist History, script ScriptEvaluator, out, errw io.Writer) *Shell {
	s := &Shell{
		Line:    line,
		Env:     env,
		History: hist,
		Script:  script,
		Out:     out,
		Err:     errw,
	}
	s.ctx = &BuiltinContext{Env: env, History: hist, BuiltinName: IsBuiltin}
	return s
}

// Run executes the REPL loop until EOF, a fatal Reader error, or the exit
// builtin. It returns the process exit code to use and any fatal error
// (fatal errors are I/O failures on the Reader other than EOF/cancellation;
// everything else is printed and the loop continues).
func (s *Shell) Run() (exitCode int, err error) {
	for {
		cmd, readErr := ReadCommand(s.Line)
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return 0, nil
			}
			if errors.Is(readErr, ErrCancelled) || errors.Is(readErr, ErrInterrupted) {
				fmt.Fprintln(s.Out)
				continue
			}
			return 1, readErr
		}

		if strings.TrimSpace(cmd) == "" {
			continue
		}
		if s.History != nil {
			s.History.Add(cmd)
		}

		if s.runSegments(cmd) {
			return s.ctx.ExitCode, nil
		}
	}
}

// runSegments executes one logical command's segments with short-circuit
// evaluation (spec §4.9). It returns true if the exit builtin was invoked
// during this command.
//
// runNext/lastExitCode carry through segments that are themselves skipped:
// "false && echo yes || echo no" must still run "echo no", because the ||
// trailing the skipped "echo yes" looks at the exit code of the last
// segment that actually ran ("false"), not at whether "echo yes" ran.
func (s *Shell) runSegments(cmd string) (exiting bool) {
	segments := SplitLogical(cmd)
	runNext := true
	lastExitCode := 0
	anyResolved := false

	for _, seg := range segments {
		if !runNext {
			runNext = nextRunNext(seg.Connector, lastExitCode)
			continue
		}

		result, err := ExecutePipeline(seg.Text, s.Env, s.ctx)
		if err != nil {
			errLabel.Fprintln(s.Err, err)
			return s.ctx.Exiting
		}

		if result.Unresolved {
			continue
		}
		anyResolved = true

		displayOut, displayErr := result.Out, result.Err
		if result.Redir != nil {
			var applyErr error
			displayOut, displayErr, applyErr = result.Redir.Apply(result.Out, result.Err)
			if applyErr != nil {
				fmt.Fprintln(s.Err, applyErr)
			}
		}
		fmt.Fprint(s.Out, displayOut)
		fmt.Fprint(s.Err, displayErr)

		if s.ctx.Exiting {
			return true
		}

		lastExitCode = result.ExitCode
		runNext = nextRunNext(seg.Connector, lastExitCode)
	}

	if !anyResolved {
		s.runScriptFallback(cmd)
	}
	return s.ctx.Exiting
}

// runScriptFallback invokes the scripting evaluator when no segment in the
// logical command could be classified (spec §4.9, §6, §7).
func (s *Shell) runScriptFallback(cmd string) {
	if s.Script == nil {
		word := firstWord(cmd)
		errLabel.Fprintf(s.Err, "%s: command not found\n", word)
		return
	}

	out, err := s.Script.Eval(cmd, s.Env)
	if err != nil {
		var nameErr *ErrNameResolution
		if errors.As(err, &nameErr) {
			errLabel.Fprintf(s.Err, "%s: command not found\n", firstWord(cmd))
			return
		}
		errLabel.Fprintln(s.Err, err)
		return
	}
	if out != "" {
		fmt.Fprintln(s.Out, out)
	}
}

// nextRunNext decides whether the segment to follow trailing connector
// should run, given the exit code of the last segment that actually ran
// (spec §4.9: && requires success, || requires failure; & and the
// trailing-none case always proceed).
func nextRunNext(trailing Connector, lastExitCode int) bool {
	switch trailing {
	case ConnectorAnd:
		return lastExitCode == 0
	case ConnectorOr:
		return lastExitCode != 0
	default:
		return true
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}
