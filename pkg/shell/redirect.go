package shell

import (
	"fmt"
	"os"
)

// stream identifies which captured output stream a Redirection pulls from.
type stream int

const (
	streamStdout stream = iota
	streamStderr
	streamBoth
)

// Redirection is the parsed (operator, target) pair trailing a stage's token
// vector (spec §3, §4.6). At most one redirection applies per stage; only
// the last stage's redirection reaches the pipeline's final sink (§4.8).
type Redirection struct {
	Operator string
	Target   string
	from     stream
	append   bool
}

// redirectionSpecs is the Registry of recognised operators (spec §6's
// table): a plain map from operator to the stream it diverts and whether it
// appends.
var redirectionSpecs = map[string]struct {
	from   stream
	append bool
}{
	">":   {streamStdout, false},
	">|":  {streamStdout, false},
	"1>":  {streamStdout, false},
	"1>|": {streamStdout, false},
	">>":  {streamStdout, true},
	"1>>": {streamStdout, true},
	"2>":  {streamStderr, false},
	"2>|": {streamStderr, false},
	"2>>": {streamStderr, true},
	"&>":  {streamBoth, false},
}

// IsRedirectOperator reports whether tok is a recognised redirection
// operator (spec §6's table).
func IsRedirectOperator(tok string) bool {
	_, ok := redirectionSpecs[tok]
	return ok
}

// ParseRedirection scans tokens for the first recognised redirection
// operator at position i with i+1 < len(tokens) (spec §4.6). The stage's
// positional arguments become tokens[:i]; the redirection becomes
// (tokens[i], tokens[i+1]). Trailing tokens beyond i+1 are discarded. If no
// operator is found, the full token list is positional and redirection is
// absent (returned *Redirection is nil).
func ParseRedirection(tokens []string) (args []string, redir *Redirection) {
	for i, tok := range tokens {
		spec, ok := redirectionSpecs[tok]
		if !ok {
			continue
		}
		if i+1 >= len(tokens) {
			continue
		}
		return tokens[:i], &Redirection{
			Operator: tok,
			Target:   tokens[i+1],
			from:     spec.from,
			append:   spec.append,
		}
	}
	return tokens, nil
}

// Apply writes out/errOut to r's target according to the operator family
// (spec §6's redirection semantics table) and returns what remains for the
// Driver to display on stdout and stderr respectively. A failure to open the
// target is reported as an error; the captured output is still returned
// unchanged so the caller can display it (spec §7, "I/O error on redirection
// target").
func (r *Redirection) Apply(out, errOut string) (displayOut, displayErr string, err error) {
	flag := os.O_CREATE | os.O_WRONLY
	if r.append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	var toFile string
	switch r.from {
	case streamStdout:
		toFile, displayOut, displayErr = out, "", errOut
	case streamStderr:
		toFile, displayOut, displayErr = errOut, out, ""
	case streamBoth:
		toFile, displayOut, displayErr = out+errOut, "", ""
	}

	f, openErr := os.OpenFile(r.Target, flag, 0644)
	if openErr != nil {
		// On failure, spec §7 says the captured output is still shown; we
		// hand back the unredirected streams for the caller to print.
		return out, errOut, fmt.Errorf("failed to open %s: %w", r.Target, openErr)
	}
	defer f.Close()

	if _, err := f.WriteString(toFile); err != nil {
		return out, errOut, fmt.Errorf("failed to write %s: %w", r.Target, err)
	}

	return displayOut, displayErr, nil
}
