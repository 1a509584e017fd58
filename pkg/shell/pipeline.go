package shell

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// StageKind classifies a Pipeline Stage's first token (spec §3, §4.8 step 2).
type StageKind int

const (
	StageBuiltin StageKind = iota
	StageExternal
	StageUnknown
)

// Stage is one classified element of a pipeline (spec §3: "(name, args[],
// redir?)").
type Stage struct {
	Name  string
	Args  []string
	Redir *Redirection
	Kind  StageKind
	path  string // resolved executable path, set when Kind == StageExternal
}

// PipelineResult is the outcome of executing one logical segment (spec §3).
// Unresolved is the distinguished value meaning at least one stage could
// not be classified (was Unknown), so nothing in the segment ran; it
// signals the Driver to try the scripting fallback (spec §4.8 step 3, §4.9).
type PipelineResult struct {
	Unresolved bool
	ExitCode   int
	Redir      *Redirection
	Out        string
	Err        string
}

// ExecutePipeline runs one logical segment's text through the Pipeline
// Splitter, classifies every stage, and — provided every stage is
// resolvable — executes the chain (spec §4.8).
func ExecutePipeline(text string, env *Environment, ctx *BuiltinContext) (PipelineResult, error) {
	rawStages := SplitPipeline(text)

	stages := make([]Stage, len(rawStages))
	for i, raw := range rawStages {
		tokens, err := Tokenize(Substitute(raw, env))
		if err != nil {
			return PipelineResult{}, err
		}
		if len(tokens) == 0 {
			return PipelineResult{}, ErrEmptyPipelineStage
		}

		args, redir := ParseRedirection(tokens)
		if len(args) == 0 {
			return PipelineResult{}, ErrEmptyPipelineStage
		}

		stage := Stage{Name: args[0], Args: args[1:], Redir: redir}
		switch {
		case IsBuiltin(args[0]):
			stage.Kind = StageBuiltin
		default:
			if path, ok := Lookup(args[0], env); ok {
				stage.Kind = StageExternal
				stage.path = path
			} else {
				stage.Kind = StageUnknown
			}
		}
		stages[i] = stage
	}

	allUnknown := true
	for _, s := range stages {
		if s.Kind != StageUnknown {
			allUnknown = false
			break
		}
	}
	if allUnknown {
		return PipelineResult{Unresolved: true}, nil
	}

	// Any single Unknown stage still makes the whole segment Unresolved
	// (spec §4.8 step 3: "If any stage is Unknown, return Unresolved for
	// the whole segment").
	for _, s := range stages {
		if s.Kind == StageUnknown {
			return PipelineResult{Unresolved: true}, nil
		}
	}

	out, errOut, exitCode, err := runChain(stages, env, ctx)
	if err != nil {
		return PipelineResult{ExitCode: 1, Err: err.Error() + "\n"}, nil
	}

	last := stages[len(stages)-1]
	return PipelineResult{ExitCode: exitCode, Redir: last.Redir, Out: out, Err: errOut}, nil
}

// runChain executes a classified stage list, wiring stdin/stdout between
// consecutive external stages with real OS pipes (so that, per spec §5,
// child i+1 is spawned before child i is waited on) and running builtins
// synchronously as chain breakpoints. It returns the final stage's stdout
// and stderr plus the concatenated stderr of every non-final stage, and the
// final stage's exit code.
func runChain(stages []Stage, env *Environment, ctx *BuiltinContext) (out, errOut string, exitCode int, err error) {
	var nonFinalErr strings.Builder
	var pendingStdin []byte

	i := 0
	for i < len(stages) {
		if stages[i].Kind == StageBuiltin {
			stage := stages[i]
			bout, berr := Builtins[stage.Name](stage.Args, ctx)
			isLast := i == len(stages)-1
			if !isLast {
				nonFinalErr.WriteString(berr)
			} else {
				out, errOut = bout, berr
			}
			pendingStdin = []byte(bout)
			exitCode = 0
			if ctx.Exiting {
				exitCode = ctx.ExitCode
			}
			i++
			continue
		}

		// A maximal run of consecutive External stages executes as one
		// concurrently-piped chain (grounded on the concurrent os.Pipe +
		// goroutine pattern used for shell pipeline interpreters).
		start := i
		for i < len(stages) && stages[i].Kind == StageExternal {
			i++
		}
		run := stages[start:i]
		isLastRun := i == len(stages)

		finalOut, finalErr, runNonFinalErr, code, runErr := runExternalChain(run, env, pendingStdin)
		if runErr != nil {
			return "", "", 1, runErr
		}
		nonFinalErr.WriteString(runNonFinalErr)

		if isLastRun {
			out, errOut = finalOut, finalErr
		} else {
			nonFinalErr.WriteString(finalErr)
		}
		pendingStdin = []byte(finalOut)
		exitCode = code
	}

	// Non-final stages' stderr is concatenated with the final stage's own
	// stderr (spec §4.8 step 5).
	return out, nonFinalErr.String() + errOut, exitCode, nil
}

// runExternalChain spawns every stage in run, wiring each stage's stdout to
// the next stage's stdin via os.Pipe, and returns the final stage's stdout
// and stderr, the concatenated stderr of every non-final stage, and the
// final stage's exit code.
func runExternalChain(run []Stage, env *Environment, stdin []byte) (finalOut, finalErr, nonFinalErr string, exitCode int, err error) {
	cmds := make([]*exec.Cmd, len(run))
	stdoutBufs := make([]*bytes.Buffer, len(run))
	stderrBufs := make([]*bytes.Buffer, len(run))
	var writers, readers []*os.File

	for idx, stage := range run {
		cmds[idx] = buildCommand(stage, env)
		stderrBufs[idx] = &bytes.Buffer{}
		cmds[idx].Stderr = stderrBufs[idx]
	}
	cmds[0].Stdin = bytes.NewReader(stdin)

	for idx := 0; idx < len(cmds)-1; idx++ {
		r, w, perr := os.Pipe()
		if perr != nil {
			return "", "", "", 0, fmt.Errorf("pipe: %w", perr)
		}
		cmds[idx].Stdout = w
		cmds[idx+1].Stdin = r
		writers = append(writers, w)
		readers = append(readers, r)
	}

	last := len(cmds) - 1
	stdoutBufs[last] = &bytes.Buffer{}
	cmds[last].Stdout = stdoutBufs[last]

	for idx, cmd := range cmds {
		if startErr := cmd.Start(); startErr != nil {
			return "", "", "", 0, fmt.Errorf("%s: %w", run[idx].Name, ErrNotFound)
		}
	}
	for _, w := range writers {
		w.Close()
	}
	for _, r := range readers {
		r.Close()
	}

	_ = cmds[last].Wait()
	exitCode = cmds[last].ProcessState.ExitCode()

	for idx := 0; idx < last; idx++ {
		_ = cmds[idx].Wait()
		nonFinalErr += stderrBufs[idx].String()
	}

	return stdoutBufs[last].String(), stderrBufs[last].String(), nonFinalErr, exitCode, nil
}

// buildCommand constructs the exec.Cmd for one external stage. On POSIX,
// argv is [name, args...]; on Windows, the stage is run through PowerShell
// so that the name resolves via PowerShell's own command table (spec
// §4.8's "Argument passing to external programs").
func buildCommand(stage Stage, env *Environment) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("powershell.exe", "-NoProfile", "-Command", windowsCommandLine(stage))
	} else {
		cmd = exec.Command(stage.path, stage.Args...)
		cmd.Args = append([]string{stage.Name}, stage.Args...)
	}
	cmd.Env = env.Pairs()
	return cmd
}

// windowsCommandLine joins a stage's name and arguments into a single
// PowerShell command string, wrapping any argument containing whitespace in
// single quotes (spec §4.8).
func windowsCommandLine(stage Stage) string {
	parts := make([]string, 0, len(stage.Args)+1)
	parts = append(parts, stage.Name)
	for _, a := range stage.Args {
		if strings.ContainsAny(a, " \t") {
			parts = append(parts, "'"+a+"'")
		} else {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}
