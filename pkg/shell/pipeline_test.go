package shell

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) *Environment {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("pipeline tests assume a POSIX external command set")
	}
	return NewEnvironment(os.Environ())
}

func testCtx(env *Environment) *BuiltinContext {
	return &BuiltinContext{Env: env, BuiltinName: IsBuiltin}
}

func TestExecutePipelineBuiltinOnly(t *testing.T) {
	env := testEnv(t)
	res, err := ExecutePipeline("echo hello world", env, testCtx(env))
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	assert.Equal(t, "hello world\n", res.Out)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecutePipelineUnknownCommandIsUnresolved(t *testing.T) {
	env := testEnv(t)
	res, err := ExecutePipeline("definitely-not-a-real-command-xyz arg1", env, testCtx(env))
	require.NoError(t, err)
	assert.True(t, res.Unresolved)
}

func TestExecutePipelineExternalChain(t *testing.T) {
	env := testEnv(t)
	res, err := ExecutePipeline("echo hi | cat", env, testCtx(env))
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	assert.Equal(t, "hi\n", res.Out)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecutePipelineExternalExitCode(t *testing.T) {
	env := testEnv(t)
	res, err := ExecutePipeline("false", env, testCtx(env))
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	assert.Equal(t, 1, res.ExitCode)
}

func TestExecutePipelineBuiltinMidChainDoesNotInheritStdin(t *testing.T) {
	env := testEnv(t)
	res, err := ExecutePipeline("echo upstream | pwd", env, testCtx(env))
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	dir, _ := os.Getwd()
	assert.Equal(t, dir+"\n", res.Out)
}

func TestExecutePipelineWithRedirection(t *testing.T) {
	env := testEnv(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	res, err := ExecutePipeline("echo hi > "+target, env, testCtx(env))
	require.NoError(t, err)
	require.NotNil(t, res.Redir)

	displayOut, displayErr, applyErr := res.Redir.Apply(res.Out, res.Err)
	require.NoError(t, applyErr)
	assert.Equal(t, "", displayOut)
	assert.Equal(t, "", displayErr)

	got, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "hi\n", string(got))
}

func TestExecutePipelineEmptyStageIsError(t *testing.T) {
	env := testEnv(t)
	_, err := ExecutePipeline("echo hi |", env, testCtx(env))
	assert.ErrorIs(t, err, ErrEmptyPipelineStage)
}

func TestExecutePipelineTokenizeErrorPropagates(t *testing.T) {
	env := testEnv(t)
	_, err := ExecutePipeline("echo 'unterminated", env, testCtx(env))
	assert.ErrorIs(t, err, ErrUnclosedQuote)
}

func TestExecutePipelineExitSetsContext(t *testing.T) {
	env := testEnv(t)
	ctx := testCtx(env)
	res, err := ExecutePipeline("exit 3", env, ctx)
	require.NoError(t, err)
	assert.True(t, ctx.Exiting)
	assert.Equal(t, 3, ctx.ExitCode)
	assert.Equal(t, 3, res.ExitCode)
}
