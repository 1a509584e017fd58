package shell

import (
	"os"
	"path/filepath"
)

// Lookup searches env's PATH directories for an executable file named name,
// returning its full path. It mirrors exec.LookPath but is driven by the
// shell's own Environment rather than the process's real environment, so
// that a script-mutated PATH takes effect immediately (spec §3, §6).
func Lookup(name string, env *Environment) (string, bool) {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		if info, err := os.Stat(name); err == nil && isExecutable(info) {
			return name, true
		}
		return "", false
	}

	for _, dir := range env.PathDirs() {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, true
		}
	}
	return "", false
}

func isExecutable(info os.FileInfo) bool {
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
