// Package solver enumerates expressions that hit a target value using a
// bounded multiset of tokens. It is the hint engine behind the numeric
// puzzle: given the digits and operators a puzzle hands out, it finds every
// rendering (up to a cap) whose value equals the target.
//
// The search is a depth-first walk over expression positions. At every
// position the placeable tokens are filtered by syntactic rules so that only
// well-formed prefixes are extended; each syntactically complete prefix is
// rendered and evaluated. Candidates that fail evaluation are discarded,
// never surfaced as errors.
//
// A Solve call owns all of its scratch state, so concurrent invocations
// never interfere, and for identical input the result is identical, same
// expressions in the same order.
package solver

import (
	"context"
	"errors"
	"fmt"

	"sumzle/internal/eval"
	"sumzle/internal/token"
)

// ErrInvalidConstraint is wrapped by Solve when the constraint itself is
// unusable. An unreachable target is not invalid; it yields an empty set.
var ErrInvalidConstraint = errors.New("invalid constraint")

// Constraint describes one puzzle instance. It is read-only input: Solve
// clones the bag before searching.
type Constraint struct {
	// Target is the integer value every accepted expression must equal.
	Target int
	// Tokens is the multiset of digits and operators available. Each token
	// may be used at most as many times as it occurs here.
	Tokens *token.Bag
	// MaxLength bounds the candidate expression length in tokens.
	MaxLength int
	// MaxResults caps the solution set; the search stops once reached.
	MaxResults int
	// MaxOperand, when positive, bounds the numeric literals the search will
	// form (the game caps operands so hints stay readable). Zero means no
	// bound.
	MaxOperand int
}

// SolutionSet is the ordered, deduplicated list of accepted expressions.
type SolutionSet []string

// Solve enumerates expressions satisfying c. The context is checked
// cooperatively once per candidate; on cancellation the partial set found so
// far is returned with a nil error.
func Solve(ctx context.Context, c Constraint) (SolutionSet, error) {
	if c.Tokens.Size() == 0 {
		return nil, fmt.Errorf("%w: empty token set", ErrInvalidConstraint)
	}
	if c.MaxLength <= 0 {
		return nil, fmt.Errorf("%w: non-positive max length %d", ErrInvalidConstraint, c.MaxLength)
	}
	if c.MaxResults <= 0 {
		return nil, fmt.Errorf("%w: non-positive max results %d", ErrInvalidConstraint, c.MaxResults)
	}
	s := &search{
		ctx:   ctx,
		c:     c,
		bag:   c.Tokens.Clone(),
		buf:   make([]token.Token, 0, c.MaxLength),
		cache: eval.NewCache(),
		seen:  make(map[string]struct{}),
	}
	s.dfs(floorContext{}, 0)
	return s.results, nil
}

// placeOrder fixes the order tokens are tried at each position, which fixes
// discovery order. Digits 1..9 lead so searches reach value-bearing
// candidates before structural ones.
var placeOrder = []token.Token{
	'1', '2', '3', '4', '5', '6', '7', '8', '9', '0',
	token.Add, token.Sub, token.Mul, token.Div, token.Mod, token.Pow,
	token.Permute, token.Factorial,
	token.LParen, token.LFloor, token.RParen, token.RFloor,
}

// floorContext tracks whether the walk is inside a floor bracket, whose
// content is restricted to a digit run optionally divided once.
type floorContext struct {
	inFloor  bool
	hasSlash bool
}

type search struct {
	ctx     context.Context
	c       Constraint
	bag     *token.Bag
	buf     []token.Token
	cache   *eval.Cache
	seen    map[string]struct{}
	results SolutionSet
	stopped bool // result cap reached or context cancelled
}

func (s *search) dfs(fc floorContext, parenDepth int) {
	if s.stopped {
		return
	}
	if len(s.buf) > 0 && parenDepth == 0 && !fc.inFloor && s.complete() {
		s.emit()
		if s.stopped {
			return
		}
	}
	if len(s.buf) == s.c.MaxLength {
		return
	}
	for _, t := range placeOrder {
		if s.bag.Count(t) == 0 || !s.canPlace(t, fc, parenDepth) {
			continue
		}
		s.bag.Take(t)
		s.buf = append(s.buf, t)
		s.dfs(nextFloorContext(fc, t), nextParenDepth(parenDepth, t))
		s.buf = s.buf[:len(s.buf)-1]
		s.bag.Put(t)
		if s.stopped {
			return
		}
	}
}

// complete reports whether the current prefix can stand as a whole
// expression. Bracket balance is already guaranteed by the caller.
func (s *search) complete() bool {
	last := s.buf[len(s.buf)-1]
	return last.IsDigit() || last == token.RParen || last == token.RFloor || last == token.Factorial
}

// emit renders, evaluates and scores the current prefix as one candidate.
// This is also the cooperative cancellation point: one check per candidate.
func (s *search) emit() {
	if s.ctx != nil && s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	expr := s.render()
	if _, dup := s.seen[expr]; dup {
		return
	}
	s.seen[expr] = struct{}{}
	v, err := s.cache.Evaluate(expr)
	if err != nil {
		return // invalid candidate, not a search failure
	}
	if !eval.EqualsInt(v, s.c.Target) {
		return
	}
	s.results = append(s.results, expr)
	if len(s.results) >= s.c.MaxResults {
		s.stopped = true
	}
}

func (s *search) render() string {
	r := make([]rune, len(s.buf))
	for i, t := range s.buf {
		r[i] = rune(t)
	}
	return string(r)
}

func nextFloorContext(fc floorContext, t token.Token) floorContext {
	switch {
	case t == token.LFloor:
		return floorContext{inFloor: true}
	case t == token.RFloor:
		return floorContext{}
	case t == token.Div && fc.inFloor:
		return floorContext{inFloor: true, hasSlash: true}
	}
	return fc
}

func nextParenDepth(depth int, t token.Token) int {
	switch t {
	case token.LParen:
		return depth + 1
	case token.RParen:
		return depth - 1
	}
	return depth
}

// canPlace applies the grammar rules deciding whether t may follow the
// current prefix. These mirror the evaluator's grammar so that nearly every
// completed candidate actually evaluates; the evaluator remains the final
// authority.
func (s *search) canPlace(t token.Token, fc floorContext, parenDepth int) bool {
	pos := len(s.buf)
	var prev token.Token
	if pos > 0 {
		prev = s.buf[pos-1]
	}

	// Floor bracket content is a digit run with at most one division, the
	// only shape the game accepts inside [ ].
	if fc.inFloor {
		switch {
		case t.IsDigit():
			return s.digitOK(t)
		case t == token.Div:
			return !fc.hasSlash && prev.IsDigit()
		case t == token.RFloor:
			return fc.hasSlash && prev.IsDigit()
		}
		return false
	}
	if t == token.RFloor {
		return false
	}
	if t == token.LFloor {
		// Needs room for at least [d/d] and cannot follow a value.
		if s.c.MaxLength-pos < 5 {
			return false
		}
		return pos == 0 || prev.IsBinaryOp() || prev == token.LParen
	}

	if pos == 0 {
		if t.IsDigit() {
			return s.digitOK(t)
		}
		return t == token.LParen
	}

	switch {
	case prev.IsDigit():
		switch {
		case t.IsDigit():
			return s.digitOK(t)
		case t.IsBinaryOp() || t == token.Factorial:
			return true
		case t == token.RParen:
			return parenDepth > 0
		}
		return false
	case prev.IsBinaryOp():
		if t.IsDigit() {
			return s.digitOK(t)
		}
		return t == token.LParen
	case prev == token.Factorial:
		switch {
		case t.IsBinaryOp():
			return true
		case t == token.RParen:
			return parenDepth > 0
		}
		return false
	case prev == token.LParen:
		if t.IsDigit() {
			return s.digitOK(t)
		}
		return t == token.LParen
	case prev == token.RParen, prev == token.RFloor:
		switch {
		case t.IsBinaryOp():
			return true
		// The game defines ! on plain values and parenthesized groups, not
		// on floored ones.
		case t == token.Factorial:
			return prev == token.RParen
		case t == token.RParen:
			return parenDepth > 0
		}
		return false
	}
	return false
}

// digitOK enforces the literal rules: no leading zeros and, when
// MaxOperand is set, no literal above it.
func (s *search) digitOK(t token.Token) bool {
	pos := len(s.buf)
	start := pos
	for start > 0 && s.buf[start-1].IsDigit() {
		start--
	}
	if start < pos && s.buf[start] == '0' {
		return false // extending a literal that starts with 0
	}
	if s.c.MaxOperand > 0 {
		v := 0
		for i := start; i < pos; i++ {
			v = v*10 + int(s.buf[i]-'0')
		}
		v = v*10 + int(t-'0')
		if v > s.c.MaxOperand {
			return false
		}
	}
	return true
}
