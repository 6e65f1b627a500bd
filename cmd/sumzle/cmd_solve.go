package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumzle/internal/solver"
	"sumzle/internal/token"
)

var (
	solveTarget     int
	solveTokens     string
	solveMaxLength  int
	solveMaxResults int
	solveMaxOperand int
)

// solveCmd enumerates expressions hitting a target
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find expressions that evaluate to a target",
	Long: `Enumerates expressions buildable from the given tokens whose value
equals the target, in deterministic discovery order.

Each token may be used at most as often as it appears in --tokens. An
unreachable target prints nothing and exits successfully; the puzzle simply
has no solution with those tokens.

Example:
  sumzle solve --target 24 --tokens "12345*+-"`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().IntVarP(&solveTarget, "target", "t", 0, "target value")
	solveCmd.Flags().StringVarP(&solveTokens, "tokens", "k", "", "available tokens, e.g. \"1234+*!\"")
	solveCmd.Flags().IntVarP(&solveMaxLength, "max-length", "l", 0, "max expression length (default from config)")
	solveCmd.Flags().IntVarP(&solveMaxResults, "max-results", "n", 0, "max solutions (default from config)")
	solveCmd.Flags().IntVar(&solveMaxOperand, "max-operand", -1, "largest literal allowed, 0 for unlimited (default from config)")
	_ = solveCmd.MarkFlagRequired("target")
	_ = solveCmd.MarkFlagRequired("tokens")
}

func runSolve(cmd *cobra.Command, args []string) error {
	bag, err := token.ParseBag(solveTokens)
	if err != nil {
		return err
	}
	c := solver.Constraint{
		Target:     solveTarget,
		Tokens:     bag,
		MaxLength:  solveMaxLength,
		MaxResults: solveMaxResults,
		MaxOperand: solveMaxOperand,
	}
	if c.MaxLength == 0 {
		c.MaxLength = cfg.Solver.MaxLength
	}
	if c.MaxResults == 0 {
		c.MaxResults = cfg.Solver.MaxResults
	}
	if c.MaxOperand < 0 {
		c.MaxOperand = cfg.Solver.MaxOperand
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Debug("starting solve",
		zap.Int("target", c.Target),
		zap.String("tokens", bag.String()),
		zap.Int("max_length", c.MaxLength),
		zap.Int("max_results", c.MaxResults))

	start := time.Now()
	solutions, err := solver.Solve(ctx, c)
	if err != nil {
		return err
	}
	logger.Debug("solve finished",
		zap.Int("solutions", len(solutions)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("timed_out", ctx.Err() != nil))

	if len(solutions) == 0 {
		fmt.Println("no solution")
		return nil
	}
	for i, s := range solutions {
		fmt.Printf("[%2d] %s = %d\n", i+1, s, solveTarget)
	}
	return nil
}
