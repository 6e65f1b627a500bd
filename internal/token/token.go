// Package token defines the atomic units of Sumzle expressions: digit
// literals and the operator symbols the evaluator understands, plus a
// multiset type for tracking how many of each token a puzzle provides.
package token

import (
	"fmt"
	"sort"
	"strings"
)

// Token is a single expression character. Digits are '0'..'9'; operators use
// their ASCII form ('*' not '×'). Normalize maps the unicode aliases.
type Token rune

const (
	Add        Token = '+'
	Sub        Token = '-'
	Mul        Token = '*'
	Div        Token = '/'
	Mod        Token = '%'
	Pow        Token = '^'
	Factorial  Token = '!'
	Permute    Token = 'A'
	LParen     Token = '('
	RParen     Token = ')'
	LFloor     Token = '['
	RFloor     Token = ']'
	Equals     Token = '='
	Greater    Token = '>'
)

// Normalize maps the unicode operator aliases used by the game tiles onto
// their ASCII equivalents. Other runes pass through unchanged.
func Normalize(r rune) Token {
	switch r {
	case '×':
		return Mul
	case '÷':
		return Div
	case '−':
		return Sub
	}
	return Token(r)
}

func (t Token) IsDigit() bool { return t >= '0' && t <= '9' }

// IsBinaryOp reports whether t is an infix operator. Permutation counts: it
// sits between two operands even though it is rewritten to a function call
// before evaluation.
func (t Token) IsBinaryOp() bool {
	switch t {
	case Add, Sub, Mul, Div, Mod, Pow, Permute:
		return true
	}
	return false
}

func (t Token) IsPostfixOp() bool { return t == Factorial }

func (t Token) IsOperator() bool { return t.IsBinaryOp() || t.IsPostfixOp() }

func (t Token) IsOpenBracket() bool { return t == LParen || t == LFloor }

func (t Token) IsCloseBracket() bool { return t == RParen || t == RFloor }

// IsRelation reports whether t splits an equation into two sides.
func (t Token) IsRelation() bool { return t == Equals || t == Greater }

// Valid reports whether t is a character that may appear in a puzzle at all.
func (t Token) Valid() bool {
	return t.IsDigit() || t.IsOperator() || t.IsOpenBracket() || t.IsCloseBracket() || t.IsRelation()
}

func (t Token) String() string { return string(rune(t)) }

// Matching returns the closing bracket for an opening one.
func (t Token) Matching() (Token, bool) {
	switch t {
	case LParen:
		return RParen, true
	case LFloor:
		return RFloor, true
	}
	return 0, false
}

// Bag is a multiset of tokens. The zero value is empty and ready to use via
// the methods; use NewBag or ParseBag to build one from existing tokens.
type Bag struct {
	counts map[Token]int
}

// NewBag builds a bag from the given tokens.
func NewBag(tokens ...Token) *Bag {
	b := &Bag{counts: make(map[Token]int, len(tokens))}
	for _, t := range tokens {
		b.counts[t]++
	}
	return b
}

// ParseBag builds a bag from a string of token characters, normalizing
// unicode aliases. Whitespace is ignored. An invalid character is an error.
func ParseBag(s string) (*Bag, error) {
	b := NewBag()
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		t := Normalize(r)
		if !t.Valid() {
			return nil, fmt.Errorf("invalid token %q", string(r))
		}
		b.counts[t]++
	}
	return b, nil
}

// Count returns how many of t remain in the bag.
func (b *Bag) Count(t Token) int {
	if b == nil || b.counts == nil {
		return 0
	}
	return b.counts[t]
}

// Size returns the total number of tokens in the bag.
func (b *Bag) Size() int {
	n := 0
	if b == nil {
		return 0
	}
	for _, c := range b.counts {
		n += c
	}
	return n
}

// Take removes one t from the bag, reporting whether one was available.
func (b *Bag) Take(t Token) bool {
	if b.Count(t) == 0 {
		return false
	}
	b.counts[t]--
	if b.counts[t] == 0 {
		delete(b.counts, t)
	}
	return true
}

// Put returns one t to the bag.
func (b *Bag) Put(t Token) {
	if b.counts == nil {
		b.counts = make(map[Token]int)
	}
	b.counts[t]++
}

// Clone returns an independent copy. Solver invocations clone their input so
// concurrent searches never share scratch state.
func (b *Bag) Clone() *Bag {
	c := &Bag{counts: make(map[Token]int)}
	if b == nil {
		return c
	}
	for t, n := range b.counts {
		c.counts[t] = n
	}
	return c
}

// Contains reports whether other is a sub-multiset of b.
func (b *Bag) Contains(other *Bag) bool {
	if other == nil {
		return true
	}
	for t, n := range other.counts {
		if b.Count(t) < n {
			return false
		}
	}
	return true
}

// String renders the bag in sorted order, e.g. "112+*". Sorted so the output
// is stable for logs and tests.
func (b *Bag) String() string {
	if b == nil {
		return ""
	}
	tokens := make([]Token, 0, len(b.counts))
	for t := range b.counts {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	var sb strings.Builder
	for _, t := range tokens {
		for i := 0; i < b.counts[t]; i++ {
			sb.WriteRune(rune(t))
		}
	}
	return sb.String()
}

// BagFromExpression counts the tokens used by an expression string,
// normalizing aliases. Used to verify a solution only spends tokens the
// puzzle provided.
func BagFromExpression(expr string) (*Bag, error) {
	return ParseBag(expr)
}
