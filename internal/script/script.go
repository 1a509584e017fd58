// Package script implements the ScriptEvaluator collaborator (spec §4.9,
// §6): the embedded scripting fallback invoked on any logical command in
// which every segment has a pipeline stage that resolves to neither a
// built-in nor a PATH executable. It mirrors pysh's execPython, which tries eval() first
// (printing the expression's value) and falls back to exec() (a statement
// block) on failure — except scripts here are Starlark, not Python.
package script

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Neev4n/gosh/pkg/shell"
	"go.starlark.net/starlark"
)

// Evaluator runs Starlark source against a thread and global-variable
// dictionary kept alive for the whole REPL session, so an assignment on
// one line is visible on the next — pysh.main's "env = {}" kept across
// the REPL loop.
type Evaluator struct {
	thread  *starlark.Thread
	globals starlark.StringDict
}

// New returns an Evaluator with a fresh Starlark thread and an empty
// global scope.
func New() *Evaluator {
	return &Evaluator{
		thread:  &starlark.Thread{Name: "gosh"},
		globals: starlark.StringDict{},
	}
}

// Eval satisfies shell.ScriptEvaluator. It first tries source as a single
// expression (returning its printed value); if that fails, it tries
// source as a statement block, persisting any new globals it defines. A
// name the resolver cannot bind anywhere is reported as
// shell.ErrNameResolution so the Driver can print "WORD: command not
// found" (spec §4.9).
func (e *Evaluator) Eval(source string, env *shell.Environment) (string, error) {
	predeclared := e.predeclared(env)

	if v, err := starlark.Eval(e.thread, "<stdin>", source, predeclared); err == nil {
		if v == starlark.None {
			return "", nil
		}
		return v.String(), nil
	}

	globals, err := starlark.ExecFile(e.thread, "<stdin>", source, predeclared)
	if err != nil {
		if name, ok := undefinedName(err); ok {
			return "", &shell.ErrNameResolution{Name: name}
		}
		return "", err
	}

	for name, v := range globals {
		if name == "env" {
			continue
		}
		e.globals[name] = v
	}
	return "", nil
}

// predeclared merges the persistent global scope with a fresh binding of
// "env", the Starlark-visible view onto the shell's environment variables.
func (e *Evaluator) predeclared(env *shell.Environment) starlark.StringDict {
	merged := make(starlark.StringDict, len(e.globals)+1)
	for name, v := range e.globals {
		merged[name] = v
	}
	merged["env"] = &envValue{env: env}
	return merged
}

var undefinedNameRE = regexp.MustCompile(`undefined:\s*(\w+)`)

func undefinedName(err error) (string, bool) {
	m := undefinedNameRE.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// envValue exposes *shell.Environment to Starlark code as a mapping:
// env["PATH"] reads a variable, env["FOO"] = "bar" sets one, the same
// shell.Environment the core's substituter and built-ins share.
type envValue struct {
	env *shell.Environment
}

var (
	_ starlark.Value     = (*envValue)(nil)
	_ starlark.Mapping   = (*envValue)(nil)
	_ starlark.HasSetKey = (*envValue)(nil)
)

func (e *envValue) String() string        { return "<env>" }
func (e *envValue) Type() string          { return "env" }
func (e *envValue) Freeze()               {}
func (e *envValue) Truth() starlark.Bool  { return starlark.True }
func (e *envValue) Hash() (uint32, error) { return 0, errors.New("env is not hashable") }

func (e *envValue) Get(k starlark.Value) (starlark.Value, bool, error) {
	key, ok := starlark.AsString(k)
	if !ok {
		return nil, false, fmt.Errorf("env: key must be a string, got %s", k.Type())
	}
	val, ok := e.env.Get(key)
	if !ok {
		return starlark.None, true, nil
	}
	return starlark.String(val), true, nil
}

func (e *envValue) SetKey(k, v starlark.Value) error {
	key, ok := starlark.AsString(k)
	if !ok {
		return fmt.Errorf("env: key must be a string, got %s", k.Type())
	}
	val, ok := starlark.AsString(v)
	if !ok {
		return fmt.Errorf("env: value must be a string, got %s", v.Type())
	}
	e.env.Set(key, val)
	return nil
}
