// Package completion implements the CompletionSource collaborator (spec
// §6): the known-command set is built-ins union every executable found on
// PATH, plus (on Windows) PowerShell's own commands and aliases. The set
// is built lazily on first use and cached for the shell's lifetime, the
// same way pysh.completer caches its allCmds() call.
package completion

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Neev4n/gosh/pkg/shell"
)

// Source answers Complete queries against the built-ins ∪ PATH-executables
// set, computing it once on first call.
type Source struct {
	env      *shell.Environment
	builtins []string
	once     sync.Once
	sorted   []string
}

// New returns a Source that will enumerate env's PATH the first time
// Complete is called.
func New(env *shell.Environment, builtins []string) *Source {
	return &Source{env: env, builtins: builtins}
}

// Complete returns the index'th known command name starting with prefix,
// in sorted order, with no duplicates.
func (s *Source) Complete(prefix string, index int) (string, bool) {
	s.once.Do(s.build)

	matches := 0
	for _, name := range s.sorted {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if matches == index {
			return name, true
		}
		matches++
	}
	return "", false
}

func (s *Source) build() {
	set := make(map[string]struct{})
	for _, b := range s.builtins {
		set[b] = struct{}{}
	}

	for _, dir := range s.env.PathDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil || !isExecutable(info) {
				continue
			}
			name := entry.Name()
			if runtime.GOOS == "windows" {
				name = strings.TrimSuffix(name, filepath.Ext(name))
			}
			set[name] = struct{}{}
		}
	}

	if runtime.GOOS == "windows" {
		for _, name := range powerShellCommands() {
			set[name] = struct{}{}
		}
	}

	s.sorted = make([]string, 0, len(set))
	for name := range set {
		s.sorted = append(s.sorted, name)
	}
	sort.Strings(s.sorted)
}

func isExecutable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return !info.IsDir()
	}
	return !info.IsDir() && info.Mode()&0111 != 0
}

// powerShellCommands enumerates PowerShell's built-in commands and aliases
// by shelling out to Get-Command (spec §6's Windows addition). Failures
// (PowerShell missing, a non-zero exit) are silent: the PATH-derived set
// still works without it. The call has no timeout.
func powerShellCommands() []string {
	out, err := exec.Command("powershell.exe", "-NoProfile", "-Command",
		"(Get-Command).Name").Output()
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
