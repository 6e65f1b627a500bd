package eval

import (
	"strings"

	"sumzle/internal/token"
)

// Rewrite translates the game's custom operators into function-call syntax
// the underlying expression engine understands:
//
//	[x]   -> floor(x)
//	n!    -> fact(n)        (also (...)! and floor(...)!)
//	mAn   -> perm(m, n)
//
// The passes run floor, then factorial, then permutation, so that a postfix
// factorial binds tighter than A and both bind tighter than the native
// operators, matching the game's precedence. Rewrite is exported so the
// translation can be tested independently of the engine.
func Rewrite(input string) (string, error) {
	s, err := normalize(input, false)
	if err != nil {
		return "", err
	}
	if err := checkLeadingZeros(input, s); err != nil {
		return "", err
	}
	s, err = rewriteFloors(input, s)
	if err != nil {
		return "", err
	}
	s, err = rewriteFactorials(input, s)
	if err != nil {
		return "", err
	}
	s, err = rewritePermutations(input, s)
	if err != nil {
		return "", err
	}
	return s, nil
}

// normalize strips whitespace, maps the unicode operator aliases to ASCII and
// rejects characters outside the token alphabet. Relation operators are only
// legal when the caller is splitting an equation.
func normalize(input string, allowRelation bool) (string, error) {
	var sb strings.Builder
	for _, r := range input {
		if r == ' ' || r == '\t' {
			continue
		}
		t := token.Normalize(r)
		if !t.Valid() {
			return "", syntaxErr(input, "invalid character "+string(r))
		}
		if t.IsRelation() && !allowRelation {
			return "", syntaxErr(input, "relation operator "+t.String()+" not allowed in an expression")
		}
		sb.WriteRune(rune(t))
	}
	if sb.Len() == 0 {
		return "", syntaxErr(input, "empty expression")
	}
	return sb.String(), nil
}

// checkLeadingZeros rejects multi-digit literals starting with 0, which the
// game does not allow ("012" is not a rendering of 12).
func checkLeadingZeros(input, s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			continue
		}
		if i > 0 && isDigitByte(s[i-1]) {
			continue // not the start of a literal
		}
		if i+1 < len(s) && isDigitByte(s[i+1]) {
			return syntaxErr(input, "number with leading zero")
		}
	}
	return nil
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isLetterByte(b byte) bool { return b >= 'a' && b <= 'z' }

// rewriteFloors converts every [x] pair into floor(x), innermost pairs
// included. Matching counts only square brackets, so parentheses inside a
// floor do not confuse it.
func rewriteFloors(input, s string) (string, error) {
	for {
		start := strings.IndexByte(s, '[')
		stray := strings.IndexByte(s, ']')
		if start == -1 {
			if stray != -1 {
				return "", bracketErr(input, "] without matching [")
			}
			return s, nil
		}
		if stray != -1 && stray < start {
			return "", bracketErr(input, "] without matching [")
		}
		depth := 1
		end := start + 1
		for end < len(s) && depth > 0 {
			switch s[end] {
			case '[':
				depth++
			case ']':
				depth--
			}
			if depth > 0 {
				end++
			}
		}
		if depth != 0 {
			return "", bracketErr(input, "[ without matching ]")
		}
		inner, err := rewriteFloors(input, s[start+1:end])
		if err != nil {
			return "", err
		}
		s = s[:start] + "floor(" + inner + ")" + s[end+1:]
	}
}

// operandBefore finds the start index of the operand ending just before pos:
// a digit run, or a parenthesized group with an optional function-name
// prefix (produced by an earlier rewrite pass).
func operandBefore(s string, pos int) (int, bool) {
	if pos == 0 {
		return 0, false
	}
	switch {
	case isDigitByte(s[pos-1]):
		start := pos - 1
		for start > 0 && isDigitByte(s[start-1]) {
			start--
		}
		return start, true
	case s[pos-1] == ')':
		depth := 1
		i := pos - 2
		for i >= 0 && depth > 0 {
			switch s[i] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth > 0 {
				i--
			}
		}
		if depth != 0 {
			return 0, false
		}
		for i > 0 && isLetterByte(s[i-1]) {
			i--
		}
		return i, true
	}
	return 0, false
}

// operandAfter finds the end index (exclusive) of the operand starting at
// pos: a digit run, or an optionally function-prefixed parenthesized group.
func operandAfter(s string, pos int) (int, bool) {
	if pos >= len(s) {
		return 0, false
	}
	i := pos
	for i < len(s) && isLetterByte(s[i]) {
		i++
	}
	if i > pos {
		if i >= len(s) || s[i] != '(' {
			return 0, false
		}
	}
	switch {
	case i < len(s) && s[i] == '(':
		depth := 1
		j := i + 1
		for j < len(s) && depth > 0 {
			switch s[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
		if depth != 0 {
			return 0, false
		}
		return j, true
	case isDigitByte(s[pos]):
		end := pos
		for end < len(s) && isDigitByte(s[end]) {
			end++
		}
		return end, true
	}
	return 0, false
}

func rewriteFactorials(input, s string) (string, error) {
	for {
		pos := strings.IndexByte(s, '!')
		if pos == -1 {
			return s, nil
		}
		start, ok := operandBefore(s, pos)
		if !ok {
			return "", syntaxErr(input, "! without operand")
		}
		s = s[:start] + "fact(" + s[start:pos] + ")" + s[pos+1:]
	}
}

func rewritePermutations(input, s string) (string, error) {
	for {
		pos := strings.IndexByte(s, 'A')
		if pos == -1 {
			return s, nil
		}
		start, ok := operandBefore(s, pos)
		if !ok {
			return "", syntaxErr(input, "A without left operand")
		}
		end, ok := operandAfter(s, pos+1)
		if !ok {
			return "", syntaxErr(input, "A without right operand")
		}
		s = s[:start] + "perm(" + s[start:pos] + "," + s[pos+1:end] + ")" + s[end:]
	}
}
