package shell

import (
	"io"
	"strings"
	"unicode"
)

// tokenState is the Tokenizer's state machine state (spec §4.2).
type tokenState int

const (
	stateOutside tokenState = iota
	stateBare
	stateSingle
	stateDouble
)

// tokenBuffer accumulates the characters of the token currently being built,
// tracking whether it was opened by an explicit (possibly empty) quote pair
// so that "" and '' still produce a token (spec §3: "empty tokens that
// originated from an explicit empty quoted run... are preserved").
type tokenBuffer struct {
	b      strings.Builder
	quoted bool
}

func (t *tokenBuffer) appendRune(r rune) { t.b.WriteRune(r) }

func (t *tokenBuffer) empty() bool { return t.b.Len() == 0 && !t.quoted }

func (t *tokenBuffer) flush(tokens []string) []string {
	if !t.empty() {
		tokens = append(tokens, t.b.String())
	}
	t.b.Reset()
	t.quoted = false
	return tokens
}

// Tokenize splits a stage's text into tokens, honoring single/double quotes
// and backslash escapes (spec §4.2). It never produces a token containing an
// unescaped quote character from the original input (spec §8, property 1).
func Tokenize(s string) ([]string, error) {
	r := strings.NewReader(s)
	buf := &tokenBuffer{}
	tokens := []string{}

	state := stateOutside
	escaping := false

	for {
		ch, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch state {
		case stateOutside, stateBare:
			if escaping {
				buf.appendRune(ch)
				escaping = false
				state = stateBare
				continue
			}

			switch {
			case unicode.IsSpace(ch):
				tokens = buf.flush(tokens)
				state = stateOutside
			case ch == '\'':
				buf.quoted = true
				state = stateSingle
			case ch == '"':
				buf.quoted = true
				state = stateDouble
			case ch == '\\':
				escaping = true
				state = stateBare
			default:
				buf.appendRune(ch)
				state = stateBare
			}

		case stateSingle:
			if ch == '\'' {
				state = stateBare
			} else {
				buf.appendRune(ch)
			}

		case stateDouble:
			if escaping {
				if strings.ContainsRune(`"\$`+"`", ch) {
					buf.appendRune(ch)
				} else {
					buf.appendRune('\\')
					buf.appendRune(ch)
				}
				escaping = false
				continue
			}

			switch ch {
			case '"':
				state = stateBare
			case '\\':
				escaping = true
			default:
				buf.appendRune(ch)
			}
		}
	}

	if state == stateSingle || state == stateDouble {
		return nil, ErrUnclosedQuote
	}
	if escaping {
		return nil, ErrDanglingEscape
	}

	tokens = buf.flush(tokens)
	return tokens, nil
}
