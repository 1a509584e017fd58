package shell

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/Neev4n/gosh/internal/completion"
	"github.com/Neev4n/gosh/internal/history"
	"github.com/Neev4n/gosh/internal/logging"
	"github.com/Neev4n/gosh/internal/script"
	core "github.com/Neev4n/gosh/pkg/shell"
)

// Config configures a top-level gosh run. Zero values pick sane defaults:
// prompt "$ ", HISTFILE (or ~/.gosh_history) for history, stdout/stderr for
// I/O.
type Config struct {
	Prompt      string
	HistoryFile string
	Out         io.Writer
	Err         io.Writer

	// DumpHistoryFile, if non-empty, writes a YAML snapshot of the
	// session's commands to this path on exit (--dump-history).
	DumpHistoryFile string
}

// Run assembles the core Shell with its readline, history, completion, and
// scripting collaborators and drives it to completion, returning the
// process exit code.
func Run(cfg Config) (int, error) {
	if cfg.Prompt == "" {
		cfg.Prompt = "$ "
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}

	logger := logging.New(cfg.Err, slog.LevelInfo)

	env := core.NewEnvironment(os.Environ())
	histPath := resolveHistoryFile(cfg.HistoryFile, env)

	hist := history.New()
	if histPath != "" {
		if err := hist.ReadFile(histPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("could not load history file", "path", histPath, "err", err)
		}
	}

	comp := completion.New(env, builtinNames())

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     histPath,
		AutoComplete:    NewCompleter(comp),
		InterruptPrompt: "",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Error("could not initialize readline", "err", err)
		return 1, err
	}
	defer rl.Close()

	sh := core.New(NewLineSource(rl), env, hist, script.New(), cfg.Out, cfg.Err)
	code, runErr := sh.Run()

	if histPath != "" {
		if err := hist.WriteFile(histPath); err != nil {
			logger.Warn("could not write history file", "path", histPath, "err", err)
		}
	}

	if cfg.DumpHistoryFile != "" {
		if err := hist.WriteSnapshot(cfg.DumpHistoryFile); err != nil {
			logger.Warn("could not write history snapshot", "path", cfg.DumpHistoryFile, "err", err)
		}
	}

	return code, runErr
}

// resolveHistoryFile follows spec §6: an explicit override, then HISTFILE,
// then ~/.gosh_history.
func resolveHistoryFile(override string, env *core.Environment) string {
	if override != "" {
		return override
	}
	if v, ok := env.Get("HISTFILE"); ok && v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gosh_history")
}

func builtinNames() []string {
	names := make([]string, 0, len(core.Builtins))
	for name := range core.Builtins {
		names = append(names, name)
	}
	return names
}
