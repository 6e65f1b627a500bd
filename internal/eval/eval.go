// Package eval evaluates Sumzle expressions: standard arithmetic plus the
// game's factorial (!), permutation (A) and floor-bracket ([x]) operators.
//
// The custom operators are not native to any general-purpose expression
// engine, so evaluation runs in two steps: a rewriting pass (Rewrite)
// translates them into function-call syntax, then github.com/expr-lang/expr
// compiles and runs the result against an environment providing fact, perm
// and mod. Floor uses the engine's builtin floor function; % is overridden
// with mod because the engine's native % is integer-only while division here
// always produces float64.
//
// Evaluation is a pure function of the input string: no I/O, no shared
// mutable state.
package eval

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

// Epsilon is the tolerance used when comparing a float result against an
// integer target. Arithmetic is float64 (division is inherently non-integer),
// so exact comparison is not available; 1e-9 is far below the resolution of
// any value a playable expression can produce.
const Epsilon = 1e-9

// maxFactorial bounds the factorial operand; 171! overflows float64.
const maxFactorial = 170

// fact and perm take untyped operands: the engine produces int for integer
// arithmetic and float64 once division is involved, and both must be
// accepted.
func fact(x any) (float64, error) {
	n, ok := asIntValue(x)
	if !ok {
		return 0, domainErr("", "factorial of non-integer")
	}
	if n < 0 {
		return 0, domainErr("", "factorial of negative number")
	}
	if n > maxFactorial {
		return 0, domainErr("", "factorial operand too large")
	}
	r := 1.0
	for i := 2; i <= n; i++ {
		r *= float64(i)
	}
	return r, nil
}

// perm computes nPr = n!/(n-r)!.
func perm(x, y any) (float64, error) {
	n, ok := asIntValue(x)
	if !ok {
		return 0, domainErr("", "permutation of non-integer")
	}
	r, ok := asIntValue(y)
	if !ok {
		return 0, domainErr("", "permutation of non-integer")
	}
	if n < 0 || r < 0 {
		return 0, domainErr("", "permutation of negative number")
	}
	if r > n {
		return 0, domainErr("", "permutation with r > n")
	}
	// r bounds both the loop and the magnitude: r > 170 forces n >= r, and
	// then nPr >= 171! overflows float64 no matter what.
	if r > maxFactorial {
		return 0, domainErr("", "permutation operand too large")
	}
	v := 1.0
	for i := 0; i < r; i++ {
		v *= float64(n - i)
	}
	return v, nil
}

func asIntValue(x any) (int, bool) {
	f, ok := toFloat(x)
	if !ok {
		return 0, false
	}
	r := math.Round(f)
	if math.Abs(f-r) > Epsilon || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int(r), true
}

// mod replaces the engine's % operator. The native % only accepts integers,
// but division here always yields float64, so expressions like 7/2%3 need a
// floating modulo (fmod semantics, same as the game's reference arithmetic).
// The operator-override API requires exactly one return value, so failures
// are raised via panic; the engine's VM recovers the panic and wraps the
// *Error, which classify unwraps via errors.As.
func mod(x, y any) float64 {
	a, aok := toFloat(x)
	b, bok := toFloat(y)
	if !aok || !bok {
		panic(syntaxErr("", "modulo of non-numeric value"))
	}
	if b == 0 {
		panic(divZeroErr("", "modulo by zero"))
	}
	return math.Mod(a, b)
}

// evalEnv is the read-only engine environment. The functions are pure;
// nothing here is mutated by an evaluation.
var evalEnv = map[string]any{
	"fact": fact,
	"perm": perm,
	"mod":  mod,
}

// Evaluate parses and evaluates a single expression, returning its numeric
// value or an *Error classifying the failure.
func Evaluate(input string) (float64, error) {
	src, err := Rewrite(input)
	if err != nil {
		return 0, err
	}
	program, cerr := expr.Compile(src, expr.Env(evalEnv), expr.Operator("%", "mod"))
	if cerr != nil {
		return 0, classify(input, cerr)
	}
	out, rerr := expr.Run(program, evalEnv)
	if rerr != nil {
		return 0, classify(input, rerr)
	}
	v, ok := toFloat(out)
	if !ok {
		return 0, syntaxErr(input, fmt.Sprintf("non-numeric result %T", out))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, divZeroErr(input, "non-finite result")
	}
	return v, nil
}

// classify maps an engine failure onto the error taxonomy. It covers both
// phases: fact, perm and mod return *Error at run time, and the engine
// constant-folds at compile time, so a divide-by-zero can surface from
// Compile as well as from Run. Anything unrecognized is a syntax error.
func classify(input string, err error) error {
	var ee *Error
	if errors.As(err, &ee) {
		return &Error{Kind: ee.Kind, Expr: input, Detail: ee.Detail}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "DomainError"):
		return domainErr(input, msg)
	case strings.Contains(msg, "divide by zero"), strings.Contains(msg, "DivisionByZero"):
		return divZeroErr(input, msg)
	}
	return syntaxErr(input, msg)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// EqualsInt reports whether an evaluated value matches an integer target
// within Epsilon.
func EqualsInt(v float64, target int) bool {
	return math.Abs(v-float64(target)) < Epsilon
}

// CheckEquation validates a complete guess of the form LHS=RHS, LHS>RHS or
// LHS>=RHS, where the relation is the one found at bracket depth zero. Both
// sides must evaluate; evaluation errors propagate verbatim so a UI can tell
// "malformed guess" apart from "wrong answer".
func CheckEquation(input string) (bool, error) {
	return checkEquation(input, Evaluate)
}

func checkEquation(input string, evaluate func(string) (float64, error)) (bool, error) {
	s, err := normalize(input, true)
	if err != nil {
		return false, err
	}
	op, pos := "", -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '=', '>':
			if depth != 0 {
				continue
			}
			if op != "" {
				if op == ">" && s[i] == '=' && pos == i-1 {
					op = ">="
					continue
				}
				return false, syntaxErr(input, "multiple relation operators")
			}
			op, pos = string(s[i]), i
		}
	}
	if op == "" {
		return false, syntaxErr(input, "no relation operator")
	}
	lhs, rhs := s[:pos], s[pos+len(op):]
	if lhs == "" || rhs == "" {
		return false, syntaxErr(input, "relation operator missing a side")
	}
	l, err := evaluate(lhs)
	if err != nil {
		return false, err
	}
	r, err := evaluate(rhs)
	if err != nil {
		return false, err
	}
	switch op {
	case "=":
		return math.Abs(l-r) < Epsilon, nil
	case ">":
		return l-r > Epsilon, nil
	default: // ">="
		return l-r > -Epsilon, nil
	}
}

// Cache memoizes evaluations by expression text. It is owned by a single
// solver or hint invocation and never shared between concurrent searches;
// callers that need process-wide caching must add their own locking, which
// the searches deliberately avoid.
type Cache struct {
	entries map[string]cached
}

type cached struct {
	val float64
	err error
}

// NewCache returns an empty memo table.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cached)}
}

// Evaluate is Evaluate with memoization.
func (c *Cache) Evaluate(input string) (float64, error) {
	if e, ok := c.entries[input]; ok {
		return e.val, e.err
	}
	v, err := Evaluate(input)
	c.entries[input] = cached{val: v, err: err}
	return v, err
}

// CheckEquation is CheckEquation with the side evaluations memoized, which
// pays off when many candidate equations share a side.
func (c *Cache) CheckEquation(input string) (bool, error) {
	return checkEquation(input, c.Evaluate)
}

// Len returns the number of memoized expressions, for logging.
func (c *Cache) Len() int { return len(c.entries) }
