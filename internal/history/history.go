// Package history implements the History collaborator (see pkg/shell's
// interfaces.go) as a line-per-entry text file compatible with GNU
// readline's history format (spec §6), with the same "append only what's
// new this session" baseline behavior as the pysh original's
// appendHistory/appendHistory.last counter.
package history

import (
	"bufio"
	"os"

	"github.com/Neev4n/gosh/pkg/shell"
	"gopkg.in/yaml.v3"
)

// Store is an in-memory, insertion-ordered command history backed
// optionally by a file.
type Store struct {
	entries  []shell.HistoryEntry
	appended int // number of entries already persisted by a prior ReadFile, WriteFile or AppendFile call
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add records command as the next entry.
func (s *Store) Add(command string) {
	s.entries = append(s.entries, shell.HistoryEntry{Index: len(s.entries) + 1, Command: command})
}

// Entries returns every recorded command in execution order.
func (s *Store) Entries() []shell.HistoryEntry {
	out := make([]shell.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ReadFile replaces the in-memory history with the lines of path, one
// command per line. Entries loaded this way count as already-persisted:
// a subsequent AppendFile only writes commands added after this call.
func (s *Store) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var entries []shell.HistoryEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entries = append(entries, shell.HistoryEntry{Index: len(entries) + 1, Command: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	s.entries = entries
	s.appended = len(entries)
	return nil
}

// WriteFile overwrites path with every recorded command, one per line.
func (s *Store) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range s.entries {
		if _, err := w.WriteString(e.Command + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	s.appended = len(s.entries)
	return nil
}

// AppendFile appends only the commands added since the last AppendFile (or
// ReadFile or WriteFile) call to path, creating it if necessary (spec §6: "history -a
// appends only the entries added since the last append within the same
// session").
func (s *Store) AppendFile(path string) error {
	if s.appended >= len(s.entries) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range s.entries[s.appended:] {
		if _, err := w.WriteString(e.Command + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	s.appended = len(s.entries)
	return nil
}

// snapshot is the on-disk shape written by WriteSnapshot: a YAML dump of
// the session's commands, independent of the readline-compatible plain
// history file. Written when gosh is run with -dump-history; not
// something the core itself reads back.
type snapshot struct {
	Commands []string `yaml:"commands"`
}

// WriteSnapshot writes a YAML snapshot of every recorded command to path,
// for session post-mortems or bug reports.
func (s *Store) WriteSnapshot(path string) error {
	snap := snapshot{Commands: make([]string, len(s.entries))}
	for i, e := range s.entries {
		snap.Commands[i] = e.Command
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
