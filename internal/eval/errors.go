package eval

import "fmt"

// Kind classifies why an expression failed to evaluate.
type Kind int

const (
	// KindSyntax covers malformed token sequences: unbalanced parentheses,
	// missing operands, dangling operators, unknown characters.
	KindSyntax Kind = iota
	// KindDomain covers mathematically undefined operations: factorial of a
	// negative or non-integer, permutation with r > n.
	KindDomain
	// KindDivisionByZero covers division or modulo by zero, including any
	// evaluation whose result is not a finite number.
	KindDivisionByZero
	// KindUnmatchedBracket covers floor brackets with no partner.
	KindUnmatchedBracket
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindDomain:
		return "DomainError"
	case KindDivisionByZero:
		return "DivisionByZero"
	case KindUnmatchedBracket:
		return "UnmatchedBracket"
	}
	return "UnknownError"
}

// Error is the structured failure returned by Evaluate and CheckEquation.
type Error struct {
	Kind   Kind
	Expr   string // the expression as given by the caller
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Expr)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Expr, e.Detail)
}

// Is lets callers match errors by kind with a bare &Error{Kind: ...} target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Expr == "" || t.Expr == e.Expr)
}

func syntaxErr(expr, detail string) *Error {
	return &Error{Kind: KindSyntax, Expr: expr, Detail: detail}
}

func domainErr(expr, detail string) *Error {
	return &Error{Kind: KindDomain, Expr: expr, Detail: detail}
}

func divZeroErr(expr, detail string) *Error {
	return &Error{Kind: KindDivisionByZero, Expr: expr, Detail: detail}
}

func bracketErr(expr, detail string) *Error {
	return &Error{Kind: KindUnmatchedBracket, Expr: expr, Detail: detail}
}
