package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumzle/internal/eval"
)

// evalCmd evaluates a single expression
var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate a Sumzle expression",
	Long: `Evaluates one expression and prints its value.

Supports the puzzle's full grammar: + - * / % ^, postfix factorial (5!),
permutation (5A2 = 5!/3!) and floor brackets ([7/2] = 3). Unicode operator
tiles (× ÷ −) are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

// checkCmd validates a guess equation
var checkCmd = &cobra.Command{
	Use:   "check [equation]",
	Short: "Check whether a guess equation holds",
	Long: `Validates a complete guess such as "3*4=12" or "5!>100".

Prints "valid" when both sides evaluate and the relation holds, "invalid"
when they evaluate but the relation fails, and reports the evaluation error
otherwise so a malformed guess is distinguishable from a wrong one.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runEval(cmd *cobra.Command, args []string) error {
	expr := args[0]
	logger.Debug("evaluating expression", zap.String("expr", expr))

	v, err := eval.Evaluate(expr)
	if err != nil {
		var ee *eval.Error
		if errors.As(err, &ee) {
			return fmt.Errorf("%s: %s", ee.Kind, ee.Detail)
		}
		return err
	}
	if v == math.Trunc(v) {
		fmt.Printf("%d\n", int64(v))
	} else {
		fmt.Printf("%g\n", v)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	guess := args[0]
	logger.Debug("checking equation", zap.String("guess", guess))

	ok, err := eval.CheckEquation(guess)
	if err != nil {
		var ee *eval.Error
		if errors.As(err, &ee) {
			return fmt.Errorf("%s: %s", ee.Kind, ee.Detail)
		}
		return err
	}
	if ok {
		fmt.Println("valid")
	} else {
		fmt.Println("invalid")
	}
	return nil
}
