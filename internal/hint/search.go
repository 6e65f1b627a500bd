package hint

import (
	"context"
	"fmt"

	"sumzle/internal/eval"
	"sumzle/internal/solver"
	"sumzle/internal/token"
)

// Options bounds a hint search.
type Options struct {
	// Length is the board width; every candidate equation has exactly this
	// many characters.
	Length int
	// MaxResults caps the number of candidate equations returned.
	MaxResults int
	// MaxOperand, when positive, bounds numeric literals. Zero means no
	// bound.
	MaxOperand int
}

// Search enumerates equations of opts.Length consistent with the feedback in
// cons, in deterministic order, validating each completed candidate with the
// expression evaluator. The context is checked once per completed candidate;
// on cancellation the partial result is returned with a nil error.
//
// Feedback that is self-contradictory returns an ErrConflict-wrapped error;
// feedback that merely rules out every equation returns an empty slice.
func Search(ctx context.Context, cons Constraints, opts Options) ([]string, error) {
	// LHS, relation and a one-digit RHS is the shortest possible equation.
	if opts.Length < 3 {
		return nil, fmt.Errorf("%w: board length %d too short", solver.ErrInvalidConstraint, opts.Length)
	}
	if opts.MaxResults <= 0 {
		return nil, fmt.Errorf("%w: non-positive max results %d", solver.ErrInvalidConstraint, opts.MaxResults)
	}
	k, err := Derive(cons, opts.Length)
	if err != nil {
		return nil, err
	}
	s := &searcher{
		ctx:    ctx,
		opts:   opts,
		k:      k,
		buf:    make([]rune, 0, opts.Length),
		counts: make(map[rune]int),
		cache:  eval.NewCache(),
	}
	s.dfs(0, floorState{}, 0)
	return s.results, nil
}

type floorState struct {
	inFloor  bool
	hasSlash bool
}

type searcher struct {
	ctx     context.Context
	opts    Options
	k       *Knowledge
	buf     []rune
	counts  map[rune]int
	cache   *eval.Cache
	results []string
	stopped bool
}

func (s *searcher) dfs(mainOp rune, fc floorState, parenDepth int) {
	if s.stopped {
		return
	}
	if len(s.buf) == s.opts.Length {
		s.emit(mainOp, fc, parenDepth)
		return
	}
	for _, ch := range s.order(mainOp, fc) {
		if !s.canPlace(ch, mainOp, fc, parenDepth) {
			continue
		}
		s.buf = append(s.buf, ch)
		s.counts[ch]++
		nextOp := mainOp
		if ch == '=' || ch == '>' {
			nextOp = ch
		}
		s.dfs(nextOp, nextFloorState(fc, ch), nextDepth(parenDepth, ch))
		s.counts[ch]--
		s.buf = s.buf[:len(s.buf)-1]
		if s.stopped {
			return
		}
	}
}

// emit validates one full-length candidate. Cancellation is checked here,
// once per candidate.
func (s *searcher) emit(mainOp rune, fc floorState, parenDepth int) {
	if s.ctx != nil && s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	if mainOp == 0 || fc.inFloor || parenDepth != 0 {
		return
	}
	for ch, exact := range s.k.exactCount {
		if s.counts[ch] != exact {
			return
		}
	}
	for ch, min := range s.k.minCount {
		if _, hasExact := s.k.exactCount[ch]; !hasExact && s.counts[ch] < min {
			return
		}
	}
	candidate := string(s.buf)
	ok, err := s.cache.CheckEquation(candidate)
	if err != nil || !ok {
		return // not a valid equation, discard silently
	}
	s.results = append(s.results, candidate)
	if len(s.results) >= s.opts.MaxResults {
		s.stopped = true
	}
}

// order yields the characters to try at the current position. Fixed
// positions try only their character; otherwise the ordering follows the
// board context so likely candidates come first. Any fixed rule here keeps
// the search deterministic.
func (s *searcher) order(mainOp rune, fc floorState) []rune {
	pos := len(s.buf)
	if fixed := s.k.FixedAt(pos); fixed != 0 {
		return []rune{fixed}
	}
	var prev rune
	if pos > 0 {
		prev = s.buf[pos-1]
	}
	switch {
	case fc.inFloor && fc.hasSlash:
		return []rune("0123456789]")
	case fc.inFloor:
		return []rune("0123456789/")
	case mainOp == '=' && prev == '=':
		return []rune("-0123456789")
	case mainOp == '=':
		return []rune("0123456789")
	case pos == 0:
		return []rune("123456789([")
	case isDigit(prev):
		return []rune("0123456789+-*/%^A!)]=>[")
	default:
		return []rune(Alphabet)
	}
}

// canPlace combines the feedback knowledge with the equation grammar: the
// expression-shape rules of the solver plus relation handling (exactly one
// = or >, RHS of = is a plain integer).
func (s *searcher) canPlace(ch rune, mainOp rune, fc floorState, parenDepth int) bool {
	pos := len(s.buf)
	last := pos == s.opts.Length-1
	if !s.k.Allows(ch, pos) {
		return false
	}
	if exact, ok := s.k.exactCount[ch]; ok && s.counts[ch] >= exact {
		return false
	}

	t := token.Token(ch)
	var prev token.Token
	if pos > 0 {
		prev = token.Token(s.buf[pos-1])
	}

	// Inside a floor bracket: digits, one /, then ].
	if fc.inFloor {
		switch {
		case t.IsDigit():
			return s.digitOK(ch, mainOp)
		case t == token.Div:
			return !fc.hasSlash && prev.IsDigit() && !last
		case t == token.RFloor:
			return fc.hasSlash && prev.IsDigit()
		}
		return false
	}
	if t == token.RFloor {
		return false
	}

	// After = the right side is a plain integer, optionally negative.
	if mainOp == '=' {
		if t.IsDigit() {
			return s.digitOK(ch, mainOp)
		}
		return ch == '-' && prev == token.Equals && !last
	}

	if t.IsRelation() {
		if mainOp != 0 || pos == 0 || last || parenDepth != 0 {
			return false
		}
		return prev.IsDigit() || prev == token.RParen || prev == token.RFloor || prev == token.Factorial
	}
	if t == token.LFloor {
		room := 5 // [d/d]
		if mainOp == 0 {
			room += 2 // still need a relation and a RHS digit
		}
		if s.opts.Length-pos < room {
			return false
		}
		return pos == 0 || prev.IsBinaryOp() || prev.IsRelation() || prev == token.LParen
	}
	if last {
		// The final character must complete the RHS.
		if !t.IsDigit() && t != token.RParen && t != token.RFloor && t != token.Factorial {
			return false
		}
	}

	if pos == 0 {
		if t.IsDigit() {
			return s.digitOK(ch, mainOp)
		}
		return t == token.LParen
	}

	switch {
	case prev.IsDigit():
		switch {
		case t.IsDigit():
			return s.digitOK(ch, mainOp)
		case t == token.Factorial:
			return true
		case t.IsBinaryOp():
			return !last
		case t == token.RParen:
			return parenDepth > 0
		}
		return false
	case prev.IsBinaryOp(), prev.IsRelation():
		if t.IsDigit() {
			return s.digitOK(ch, mainOp)
		}
		return t == token.LParen
	case prev == token.Factorial:
		switch {
		case t.IsBinaryOp():
			return !last
		case t == token.RParen:
			return parenDepth > 0
		}
		return false
	case prev == token.LParen:
		if t.IsDigit() {
			return s.digitOK(ch, mainOp)
		}
		return t == token.LParen
	case prev == token.RParen, prev == token.RFloor:
		switch {
		case t.IsBinaryOp():
			return !last
		case t == token.Factorial:
			return prev == token.RParen
		case t == token.RParen:
			return parenDepth > 0
		}
		return false
	}
	return false
}

func (s *searcher) digitOK(ch rune, mainOp rune) bool {
	pos := len(s.buf)
	start := pos
	for start > 0 && isDigit(s.buf[start-1]) {
		start--
	}
	if start < pos && s.buf[start] == '0' {
		return false // literal with a leading zero
	}
	// Operand bound applies to the expression sides, not the = target.
	if s.opts.MaxOperand > 0 && mainOp != '=' {
		v := 0
		for i := start; i < pos; i++ {
			v = v*10 + int(s.buf[i]-'0')
		}
		v = v*10 + int(ch-'0')
		if v > s.opts.MaxOperand {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func nextFloorState(fc floorState, ch rune) floorState {
	switch {
	case ch == '[':
		return floorState{inFloor: true}
	case ch == ']':
		return floorState{}
	case ch == '/' && fc.inFloor:
		return floorState{inFloor: true, hasSlash: true}
	}
	return fc
}

func nextDepth(depth int, ch rune) int {
	switch ch {
	case '(':
		return depth + 1
	case ')':
		return depth - 1
	}
	return depth
}
