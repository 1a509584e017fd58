package shell

import (
	"os"
	"runtime"
	"strings"
)

// pathListSeparator is platform-specific (":" on POSIX, ";" on Windows).
var pathListSeparator = string(os.PathListSeparator)

// Environment is an ordered mapping from variable name to value, owned by the
// Driver and borrowed read-only by most components. Only unset and the
// scripting fallback mutate it (spec: environment mutation is narrow and
// explicit; see builtinUnset and the script package).
//
// Insertion order is preserved so that the env builtin and any future
// iteration over the mapping produce stable, reproducible output, the same
// way os.Environ() preserves process environment ordering.
type Environment struct {
	order []string
	value map[string]string
}

// NewEnvironment builds an Environment from "NAME=VALUE" pairs, the format
// produced by os.Environ(). Malformed pairs (no '=') are skipped.
func NewEnvironment(pairs []string) *Environment {
	env := &Environment{value: make(map[string]string, len(pairs))}
	for _, pair := range pairs {
		name, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		env.Set(name, val)
	}
	return env
}

// Get returns the value bound to name and whether it is present.
func (e *Environment) Get(name string) (string, bool) {
	v, ok := e.value[name]
	return v, ok
}

// Lookup returns the value bound to name, or "" if absent. This is the
// lookup used by variable substitution, where a missing name expands to the
// empty string rather than an error.
func (e *Environment) Lookup(name string) string {
	return e.value[name]
}

// Set binds name to val, preserving name's original position if it already
// existed.
func (e *Environment) Set(name, val string) {
	if e.value == nil {
		e.value = make(map[string]string)
	}
	if _, exists := e.value[name]; !exists {
		e.order = append(e.order, name)
	}
	e.value[name] = val
}

// Unset removes name. It is silent if name is absent, matching the unset
// builtin's documented contract.
func (e *Environment) Unset(name string) {
	if _, ok := e.value[name]; !ok {
		return
	}
	delete(e.value, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Keys returns variable names in insertion order.
func (e *Environment) Keys() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Pairs returns "NAME=VALUE" strings in insertion order, suitable for
// exec.Cmd.Env.
func (e *Environment) Pairs() []string {
	out := make([]string, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, name+"="+e.value[name])
	}
	return out
}

// PathDirs splits the PATH (or, on Windows, PATH then Path) entry into
// directories, per spec §3/§6.
func (e *Environment) PathDirs() []string {
	path := e.pathValue()
	if path == "" {
		return nil
	}
	return strings.Split(path, pathListSeparator)
}

// pathValue resolves the executable search path. Lookup order is PATH, then
// (Windows only) Path, matching spec §3's "case-sensitive on non-Windows; on
// Windows the lookup order PATH then Path applies".
func (e *Environment) pathValue() string {
	if v, ok := e.value["PATH"]; ok && v != "" {
		return v
	}
	if runtime.GOOS == "windows" {
		if v, ok := e.value["Path"]; ok {
			return v
		}
	}
	return ""
}
