package shell

import (
	"strings"
	"unicode"

	"github.com/chzyer/readline"

	core "github.com/Neev4n/gosh/pkg/shell"
)

// completer adapts a core.CompletionSource to readline.AutoCompleter.
type completer struct {
	src core.CompletionSource
}

// NewCompleter returns a readline.AutoCompleter backed by src.
func NewCompleter(src core.CompletionSource) readline.AutoCompleter {
	return &completer{src: src}
}

// Do implements readline.AutoCompleter. It completes the word immediately
// left of pos, returning each match's remaining runes plus a trailing
// space (spec §6: "Results are appended with a trailing space").
func (c *completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	start := pos
	for start > 0 && !unicode.IsSpace(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	var out [][]rune
	for i := 0; ; i++ {
		match, ok := c.src.Complete(prefix, i)
		if !ok {
			break
		}
		suffix := strings.TrimPrefix(match, prefix) + " "
		out = append(out, []rune(suffix))
	}
	return out, len(prefix)
}
