package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Mul, Normalize('×'))
	assert.Equal(t, Div, Normalize('÷'))
	assert.Equal(t, Sub, Normalize('−'))
	assert.Equal(t, Token('7'), Normalize('7'))
	assert.Equal(t, Add, Normalize('+'))
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, Token('0').IsDigit())
	assert.True(t, Token('9').IsDigit())
	assert.False(t, Add.IsDigit())

	for _, op := range []Token{Add, Sub, Mul, Div, Mod, Pow, Permute} {
		assert.True(t, op.IsBinaryOp(), op.String())
	}
	assert.False(t, Factorial.IsBinaryOp())
	assert.True(t, Factorial.IsPostfixOp())

	assert.True(t, LParen.IsOpenBracket())
	assert.True(t, LFloor.IsOpenBracket())
	assert.True(t, RParen.IsCloseBracket())
	assert.True(t, RFloor.IsCloseBracket())

	assert.True(t, Equals.IsRelation())
	assert.True(t, Greater.IsRelation())
	assert.False(t, Add.IsRelation())

	assert.False(t, Token('x').Valid())
	assert.True(t, Token('5').Valid())
	assert.True(t, Permute.Valid())
}

func TestMatching(t *testing.T) {
	m, ok := LParen.Matching()
	require.True(t, ok)
	assert.Equal(t, RParen, m)
	m, ok = LFloor.Matching()
	require.True(t, ok)
	assert.Equal(t, RFloor, m)
	_, ok = Add.Matching()
	assert.False(t, ok)
}

func TestParseBag(t *testing.T) {
	b, err := ParseBag("112+×!")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Count('1'))
	assert.Equal(t, 1, b.Count('2'))
	assert.Equal(t, 1, b.Count(Add))
	assert.Equal(t, 1, b.Count(Mul), "alias normalized")
	assert.Equal(t, 1, b.Count(Factorial))
	assert.Equal(t, 6, b.Size())

	_, err = ParseBag("12z")
	require.Error(t, err)

	b, err = ParseBag("1 2\t3")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Size(), "whitespace ignored")
}

func TestBagTakePut(t *testing.T) {
	b := NewBag('1', '1', Add)
	require.True(t, b.Take('1'))
	require.True(t, b.Take('1'))
	assert.False(t, b.Take('1'), "exhausted")
	b.Put('1')
	assert.True(t, b.Take('1'))
	assert.Equal(t, 1, b.Size())
}

func TestBagCloneIsIndependent(t *testing.T) {
	b := NewBag('1', Add)
	c := b.Clone()
	require.True(t, c.Take('1'))
	assert.Equal(t, 1, b.Count('1'), "original untouched")
}

func TestBagContains(t *testing.T) {
	b := NewBag('1', '2', '2', Add)
	assert.True(t, b.Contains(NewBag('2', '2')))
	assert.True(t, b.Contains(NewBag()))
	assert.False(t, b.Contains(NewBag('2', '2', '2')))
	assert.False(t, b.Contains(NewBag(Mul)))
}

func TestBagString(t *testing.T) {
	b := NewBag('2', '1', '1', Mul, Add)
	// Sorted by rune value, so operators come before digits.
	assert.Equal(t, "*+112", b.String())
}
