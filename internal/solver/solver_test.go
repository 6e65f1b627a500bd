package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sumzle/internal/eval"
	"sumzle/internal/token"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustBag(t *testing.T, s string) *token.Bag {
	t.Helper()
	b, err := token.ParseBag(s)
	require.NoError(t, err)
	return b
}

func TestSolveFindsKnownSolutions(t *testing.T) {
	got, err := Solve(context.Background(), Constraint{
		Target:     24,
		Tokens:     mustBag(t, "1234*+"),
		MaxLength:  7,
		MaxResults: 100,
	})
	require.NoError(t, err)
	assert.Contains(t, got, "24")
	assert.Contains(t, got, "23+1")
	assert.Contains(t, got, "1+23")
}

func TestSolutionsSatisfyConstraint(t *testing.T) {
	c := Constraint{
		Target:     12,
		Tokens:     mustBag(t, "12346*+!"),
		MaxLength:  6,
		MaxResults: 100,
	}
	got, err := Solve(context.Background(), c)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, expr := range got {
		v, err := eval.Evaluate(expr)
		require.NoError(t, err, expr)
		assert.True(t, eval.EqualsInt(v, c.Target), "%s = %v, want %d", expr, v, c.Target)

		used, err := token.BagFromExpression(expr)
		require.NoError(t, err, expr)
		assert.True(t, c.Tokens.Contains(used), "%s uses tokens beyond %s", expr, c.Tokens)

		assert.LessOrEqual(t, len(expr), c.MaxLength, expr)
	}
}

func TestSolveUsesCustomOperators(t *testing.T) {
	t.Run("factorial", func(t *testing.T) {
		got, err := Solve(context.Background(), Constraint{
			Target:     120,
			Tokens:     mustBag(t, "5!"),
			MaxLength:  2,
			MaxResults: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, SolutionSet{"5!"}, got)
	})
	t.Run("floor bracket", func(t *testing.T) {
		got, err := Solve(context.Background(), Constraint{
			Target:     3,
			Tokens:     mustBag(t, "72[/]"),
			MaxLength:  5,
			MaxResults: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, SolutionSet{"[7/2]"}, got)
	})
	t.Run("permutation", func(t *testing.T) {
		got, err := Solve(context.Background(), Constraint{
			Target:     20,
			Tokens:     mustBag(t, "52A"),
			MaxLength:  3,
			MaxResults: 10,
		})
		require.NoError(t, err)
		assert.Contains(t, got, "5A2")
	})
}

func TestSolveDeterministic(t *testing.T) {
	c := Constraint{
		Target:     10,
		Tokens:     mustBag(t, "12345+-*"),
		MaxLength:  6,
		MaxResults: 50,
	}
	first, err := Solve(context.Background(), c)
	require.NoError(t, err)
	second, err := Solve(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same constraint must give same solutions in the same order")
}

func TestSolveResultCap(t *testing.T) {
	c := Constraint{
		Target:     10,
		Tokens:     mustBag(t, "12345+-*"),
		MaxLength:  6,
		MaxResults: 50,
	}
	all, err := Solve(context.Background(), c)
	require.NoError(t, err)
	require.Greater(t, len(all), 3, "test needs more than 3 solutions to be meaningful")

	c.MaxResults = 3
	capped, err := Solve(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, capped, 3)
	assert.Equal(t, []string(all[:3]), []string(capped), "cap truncates, never reorders")
}

func TestSolveUnreachableTargetIsEmptyNotError(t *testing.T) {
	got, err := Solve(context.Background(), Constraint{
		Target:     7,
		Tokens:     mustBag(t, "22"),
		MaxLength:  2,
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSolveInvalidConstraint(t *testing.T) {
	tests := []struct {
		name string
		c    Constraint
	}{
		{"empty token set", Constraint{Target: 1, Tokens: token.NewBag(), MaxLength: 3, MaxResults: 5}},
		{"nil token set", Constraint{Target: 1, MaxLength: 3, MaxResults: 5}},
		{"zero max length", Constraint{Target: 1, Tokens: token.NewBag('1'), MaxResults: 5}},
		{"zero max results", Constraint{Target: 1, Tokens: token.NewBag('1'), MaxLength: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(context.Background(), tt.c)
			require.ErrorIs(t, err, ErrInvalidConstraint)
		})
	}
}

func TestSolveRespectsMaxOperand(t *testing.T) {
	c := Constraint{
		Target:     99,
		Tokens:     mustBag(t, "99"),
		MaxLength:  2,
		MaxResults: 10,
	}
	got, err := Solve(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, SolutionSet{"99"}, got)

	c.MaxOperand = 9
	got, err = Solve(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, got, "99 exceeds the operand bound")
}

func TestSolveTokenMultiplicity(t *testing.T) {
	// One '2' in the bag: "2*2" must not appear.
	got, err := Solve(context.Background(), Constraint{
		Target:     4,
		Tokens:     mustBag(t, "2*"),
		MaxLength:  3,
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.NotContains(t, got, "2*2")
}

func TestSolveCancellation(t *testing.T) {
	t.Run("already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		got, err := Solve(ctx, Constraint{
			Target:     100,
			Tokens:     mustBag(t, "123456789+-*/"),
			MaxLength:  10,
			MaxResults: 1000,
		})
		require.NoError(t, err, "cancellation is not an error")
		assert.Empty(t, got)
	})

	t.Run("cancelled mid-search", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan SolutionSet, 1)
		go func() {
			got, err := Solve(ctx, Constraint{
				Target:     12345678,
				Tokens:     mustBag(t, "1234567899876+-*/^^"),
				MaxLength:  14,
				MaxResults: 100000,
			})
			assert.NoError(t, err)
			done <- got
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()
		select {
		case got := <-done:
			// Partial result is fine; it just must arrive promptly.
			t.Logf("returned %d solutions after cancellation", len(got))
		case <-time.After(5 * time.Second):
			t.Fatal("solver did not honor cancellation")
		}
	})
}
