// Command gosh is an interactive command-line shell.
//
// gosh composes three things: a shell-like language (quoting, variable
// expansion, redirection, pipelines, && / || / & short-circuit operators),
// an embedded Starlark scripting fallback for input that isn't a
// recognized command, and a readline-backed front end with history and
// tab completion.
//
// # Built-in Commands
//
//   - echo:    print arguments to stdout
//   - exit:    terminate the shell
//   - type:    report whether a name is a built-in, a PATH executable, or unknown
//   - pwd:     print the working directory
//   - cd:      change directory, with ~ expansion
//   - history: list, read, write, or append the command history
//   - unset:   remove an environment variable
//   - env:     print the environment
//
// # Environment
//
// gosh reads PATH (POSIX) or PATH then Path (Windows) for executable
// resolution, HISTFILE for the default history file, and HOME for ~
// expansion.
//
// # Exit Codes
//
//   - 0: clean shutdown (EOF or the exit builtin with no argument)
//   - N: the argument to exit, or 1 on a fatal input-reader error
//
// # Flags
//
//   - -dump-history PATH: on exit, write a YAML snapshot of the session's
//     commands to PATH, in addition to the normal HISTFILE persistence.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Neev4n/gosh/internal/shell"
)

func main() {
	dumpHistory := flag.String("dump-history", "", "write a YAML snapshot of the session's history to this path on exit")
	flag.Parse()

	code, err := shell.Run(shell.Config{DumpHistoryFile: *dumpHistory})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
