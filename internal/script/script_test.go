package script

import (
	"testing"

	"github.com/Neev4n/gosh/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalExpressionReturnsValue(t *testing.T) {
	e := New()
	env := shell.NewEnvironment(nil)
	out, err := e.Eval("1 + 2", env)
	require.NoError(t, err)
	assert.Equal(t, "3", out)
}

func TestEvalStatementPersistsGlobalsAcrossCalls(t *testing.T) {
	e := New()
	env := shell.NewEnvironment(nil)

	out, err := e.Eval("x = 41", env)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = e.Eval("x + 1", env)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestEvalUndefinedNameReportsNameResolution(t *testing.T) {
	e := New()
	env := shell.NewEnvironment(nil)

	_, err := e.Eval("totally_unknown_identifier", env)
	require.Error(t, err)
	var nameErr *shell.ErrNameResolution
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "totally_unknown_identifier", nameErr.Name)
}

func TestEvalEnvBridgeReadsAndWritesVariables(t *testing.T) {
	e := New()
	env := shell.NewEnvironment([]string{"GREETING=hello"})

	out, err := e.Eval(`env["GREETING"]`, env)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, out)

	_, err = e.Eval(`env["GREETING"] = "bye"`, env)
	require.NoError(t, err)

	got, ok := env.Get("GREETING")
	require.True(t, ok)
	assert.Equal(t, "bye", got)
}
