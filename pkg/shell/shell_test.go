package shell

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memHistory is a minimal in-memory History for Driver tests.
type memHistory struct {
	entries []HistoryEntry
}

func (h *memHistory) Add(command string) {
	h.entries = append(h.entries, HistoryEntry{Index: len(h.entries) + 1, Command: command})
}
func (h *memHistory) Entries() []HistoryEntry      { return h.entries }
func (h *memHistory) ReadFile(path string) error   { return nil }
func (h *memHistory) WriteFile(path string) error  { return nil }
func (h *memHistory) AppendFile(path string) error { return nil }

// stubScript always raises a name-resolution error, as if every fallback
// input were an undefined identifier — enough to exercise the Driver's
// "command not found" reporting without depending on a real evaluator.
type stubScript struct {
	out string
	err error
}

func (s *stubScript) Eval(source string, env *Environment) (string, error) {
	return s.out, s.err
}

func newTestShell(t *testing.T, lines []string) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	if testing.Short() {
		// external-command segments still spawn real processes below
	}
	var out, errOut bytes.Buffer
	src := &fakeLineSource{lines: lines}
	env := NewEnvironment(os.Environ())
	sh := New(src, env, &memHistory{}, &stubScript{err: &ErrNameResolution{Name: "x"}}, &out, &errOut)
	return sh, &out, &errOut
}

func TestShellRunEchoAndExit(t *testing.T) {
	sh, out, _ := newTestShell(t, []string{"echo hi", "exit 7"})
	code, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.Equal(t, "hi\n", out.String())
}

func TestShellRunEOFExitsCleanly(t *testing.T) {
	sh, _, _ := newTestShell(t, []string{"echo only"})
	code, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestShellRunAndChainShortCircuitsOnFailure(t *testing.T) {
	sh, out, _ := newTestShell(t, []string{"false && echo should-not-print", "exit 0"})
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, "", out.String())
}

func TestShellRunOrChainRunsOnFailure(t *testing.T) {
	sh, out, _ := newTestShell(t, []string{"false || echo fallback-ran", "exit 0"})
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, "fallback-ran\n", out.String())
}

func TestShellRunBackgroundAlwaysContinues(t *testing.T) {
	sh, out, _ := newTestShell(t, []string{"false && echo gated & echo after", "exit 0"})
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, "after\n", out.String())
}

func TestShellRunAndThenOrChainFallsThroughToAlternative(t *testing.T) {
	sh, out, _ := newTestShell(t, []string{"false && echo yes || echo no", "exit 0"})
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, "no\n", out.String())
}

func TestShellRunUnknownCommandFallsBackToScript(t *testing.T) {
	sh, _, errOut := newTestShell(t, []string{"totally-unknown-command-xyz", "exit 0"})
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Equal(t, "totally-unknown-command-xyz: command not found\n", errOut.String())
}

func TestShellRunFatalReaderErrorPropagates(t *testing.T) {
	src := &erroringLineSource{err: io.ErrClosedPipe}
	env := NewEnvironment(os.Environ())
	sh := New(src, env, &memHistory{}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	_, err := sh.Run()
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type erroringLineSource struct{ err error }

func (e *erroringLineSource) SetPrompt(string) {}
func (e *erroringLineSource) ReadLine() (string, error) {
	return "", e.err
}
