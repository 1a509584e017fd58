package shell

import "errors"

// ErrExit names a request to terminate the shell. The exit builtin does not
// return it: it signals through BuiltinContext.Exiting/ExitCode, and no code
// in this package returns ErrExit.
var ErrExit = errors.New("exit")

// ErrUnclosedQuote is returned by the Tokenizer when a single or double
// quote opened in a stage's text is never closed. Backticks are not quote
// characters to the Tokenizer.
var ErrUnclosedQuote = errors.New("unclosed quote")

// ErrDanglingEscape is returned by the Tokenizer when the input ends with an
// unresolved backslash escape.
var ErrDanglingEscape = errors.New("dangling escape")

// ErrNotFound is wrapped into the error reported when an external command
// that resolved on PATH fails to start. A name that does not resolve at all
// makes its segment Unresolved instead.
var ErrNotFound = errors.New("command not found")

// ErrCancelled is returned by the Input Reader when EOF is hit in the middle
// of a multi-line continuation (spec §4.1: "An EOFError mid-continuation is
// treated as a cancellation of the current command").
var ErrCancelled = errors.New("input cancelled")

// ErrInterrupted is returned by a LineSource when the user sends Ctrl-C at
// the prompt. The Driver aborts the current input and reissues a fresh
// prompt (spec §5).
var ErrInterrupted = errors.New("interrupted")

// ErrEmptyPipelineStage is returned by the Pipeline Executor when the
// Pipeline Splitter produces an empty stage (a leading, trailing, or
// doubled `|`), per spec §4.5/§7.
var ErrEmptyPipelineStage = errors.New("empty pipeline stage")
