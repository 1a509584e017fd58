package shell

import "strings"

// Substitute expands $NAME and ${NAME} in s against env, per spec §4.3. It
// runs as a single pass over the raw command string before tokenization and
// ignores quoting context entirely — a documented non-goal, not a bug (spec:
// "this is intentional for the design and documented as a non-goal for
// precise shell parity").
func Substitute(s string, env *Environment) string {
	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '$' {
			out.WriteByte(ch)
			continue
		}

		if i+1 < len(s) && s[i+1] == '{' {
			if end := strings.IndexByte(s[i+2:], '}'); end >= 0 {
				name := s[i+2 : i+2+end]
				out.WriteString(env.Lookup(name))
				i = i + 2 + end // position of '}'; loop's i++ moves past it
				continue
			}
			// No matching '}': "${" remains literal, per spec.
			out.WriteString("${")
			i++ // consumed the '{'
			continue
		}

		j := i + 1
		for j < len(s) && isVarNameByte(s[j]) {
			j++
		}
		// Zero-length match (e.g. "$$", "$ ", end of string): the '$' is
		// consumed and the expansion is empty.
		out.WriteString(env.Lookup(s[i+1 : j]))
		i = j - 1
	}

	return out.String()
}

func isVarNameByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
