package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Builtin is the function signature for a built-in command (spec §4.7):
// every built-in is a function from arguments and context to a pair of
// output strings (some, such as cd, unset, exit and history, also have side
// effects). Built-ins never read from a piped stdin — when a
// built-in sits in the middle of a chain, it simply never consumes the
// upstream bytes (spec §4.8, step 4).
type Builtin func(args []string, ctx *BuiltinContext) (out, errOut string)

// BuiltinContext bundles the collaborators a built-in may need: the shared
// environment, the history store for the `history` builtin, and the set of
// registered builtin names for `type`. Exiting/ExitCode let the exit
// builtin signal termination back up through the Pipeline Executor and
// Driver without a process-level os.Exit call, so callers (including
// tests) can observe and act on the request themselves.
type BuiltinContext struct {
	Env         *Environment
	History     History
	BuiltinName func(name string) bool
	Exiting     bool
	ExitCode    int
}

// Builtins is the Registry of built-in names to handlers (spec §4.7's
// table). It is a plain map rather than an interface-based Strategy
// registry because every built-in shares the same (args, ctx) -> (out, err)
// contract; there is no per-builtin behavioral variance to abstract over.
var Builtins = map[string]Builtin{
	"exit":    builtinExit,
	"type":    builtinType,
	"echo":    builtinEcho,
	"pwd":     builtinPwd,
	"cd":      builtinCd,
	"history": builtinHistory,
	"unset":   builtinUnset,
	"env":     builtinEnv,
}

// IsBuiltin reports whether name is a registered built-in.
func IsBuiltin(name string) bool {
	_, ok := Builtins[name]
	return ok
}

// builtinEcho writes its arguments joined by a single space, followed by a
// newline.
func builtinEcho(args []string, ctx *BuiltinContext) (string, string) {
	return strings.Join(args, " ") + "\n", ""
}

// builtinPwd writes the current working directory plus a newline.
func builtinPwd(args []string, ctx *BuiltinContext) (string, string) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Sprintf("pwd: %v\n", err)
	}
	return dir + "\n", ""
}

// builtinType reports, for each name, whether it is a builtin, a PATH
// executable, or unresolvable.
func builtinType(args []string, ctx *BuiltinContext) (string, string) {
	if len(args) == 0 {
		return "", "type: usage: type NAME...\n"
	}

	var out, errOut strings.Builder
	for _, name := range args {
		switch {
		case ctx.BuiltinName(name):
			fmt.Fprintf(&out, "%s is a shell builtin\n", name)
		default:
			if path, ok := Lookup(name, ctx.Env); ok {
				fmt.Fprintf(&out, "%s is %s\n", name, path)
			} else {
				fmt.Fprintf(&errOut, "%s: not found\n", name)
			}
		}
	}
	return out.String(), errOut.String()
}

// builtinCd changes the working directory. Default target is the user's
// home; a leading ~ is expanded against it (spec §4.7).
func builtinCd(args []string, ctx *BuiltinContext) (string, string) {
	home := ctx.Env.Lookup("HOME")

	var target string
	switch {
	case len(args) == 0:
		target = home
	case args[0] == "~":
		target = home
	case strings.HasPrefix(args[0], "~/"):
		target = filepath.Join(home, args[0][2:])
	default:
		target = args[0]
	}

	if target == "" {
		return "", ""
	}

	if err := os.Chdir(target); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Sprintf("cd: %s: No such file or directory\n", target)
		}
		if os.IsPermission(err) {
			return "", fmt.Sprintf("cd: %s: Permission denied\n", target)
		}
		return "", fmt.Sprintf("cd: %s: %v\n", target, err)
	}
	return "", ""
}

// builtinUnset removes each named key from the environment. Silent on
// missing keys (spec §4.7).
func builtinUnset(args []string, ctx *BuiltinContext) (string, string) {
	for _, name := range args {
		ctx.Env.Unset(name)
	}
	return "", ""
}

// builtinEnv writes K=V lines for every environment entry.
func builtinEnv(args []string, ctx *BuiltinContext) (string, string) {
	var out strings.Builder
	for _, pair := range ctx.Env.Pairs() {
		out.WriteString(pair)
		out.WriteByte('\n')
	}
	return out.String(), ""
}

// builtinExit marks the shell for termination via ctx.Exiting/ctx.ExitCode;
// exit itself produces no output. History persistence on exit is the
// Driver's responsibility (spec §4.1: "EOF ... terminates the shell ...
// after best-effort history write"), not the builtin's.
func builtinExit(args []string, ctx *BuiltinContext) (string, string) {
	code := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			code = n
		}
	}
	ctx.Exiting = true
	ctx.ExitCode = code
	return "", ""
}

// builtinHistory implements listing and file I/O for the history builtin
// (spec §4.7, §6). Supported forms: `history [N]`, `history -r FILE`,
// `history -w FILE`, `history -a FILE`.
func builtinHistory(args []string, ctx *BuiltinContext) (string, string) {
	if ctx.History == nil {
		return "", "history: not available\n"
	}

	if len(args) >= 2 {
		switch args[0] {
		case "-r":
			if err := ctx.History.ReadFile(args[1]); err != nil {
				return "", fmt.Sprintf("history: %v\n", err)
			}
			return "", ""
		case "-w":
			if err := ctx.History.WriteFile(args[1]); err != nil {
				return "", fmt.Sprintf("history: %v\n", err)
			}
			return "", ""
		case "-a":
			if err := ctx.History.AppendFile(args[1]); err != nil {
				return "", fmt.Sprintf("history: %v\n", err)
			}
			return "", ""
		}
	}

	entries := ctx.History.Entries()
	limit := len(entries)
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil && n < limit {
			limit = n
		}
	}

	var out strings.Builder
	for _, e := range entries[len(entries)-limit:] {
		fmt.Fprintf(&out, "%5d  %s\n", e.Index, e.Command)
	}
	return out.String(), ""
}
