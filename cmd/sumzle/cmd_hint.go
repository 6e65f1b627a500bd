package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumzle/internal/hint"
)

var (
	hintFile       string
	hintLength     int
	hintMaxResults int
	hintMaxOperand int
)

// hintCmd derives candidate equations from board feedback
var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Suggest equations consistent with board feedback",
	Long: `Reads the board's guess history from a JSON file and enumerates
complete equations of the board length consistent with the tile feedback.

The file holds rows of tiles, each with a char and its colored state:

  {"rows": [[{"char": "3", "state": "correct"},
             {"char": "+", "state": "present"},
             {"char": "5", "state": "empty"}, ...]]}

An empty result means no equation fits the feedback, which the game surfaces
as "no hint available".`,
	RunE: runHint,
}

func init() {
	hintCmd.Flags().StringVarP(&hintFile, "file", "f", "", "board feedback JSON file")
	hintCmd.Flags().IntVarP(&hintLength, "length", "l", 8, "board length in tiles")
	hintCmd.Flags().IntVarP(&hintMaxResults, "max-results", "n", 0, "max candidate equations (default from config)")
	hintCmd.Flags().IntVar(&hintMaxOperand, "max-operand", -1, "largest literal allowed, 0 for unlimited (default from config)")
	_ = hintCmd.MarkFlagRequired("file")
}

func runHint(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(hintFile)
	if err != nil {
		return fmt.Errorf("read feedback file: %w", err)
	}
	var cons hint.Constraints
	if err := json.Unmarshal(data, &cons); err != nil {
		return fmt.Errorf("parse feedback file: %w", err)
	}

	opts := hint.Options{
		Length:     hintLength,
		MaxResults: hintMaxResults,
		MaxOperand: hintMaxOperand,
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = cfg.Solver.MaxResults
	}
	if opts.MaxOperand < 0 {
		opts.MaxOperand = cfg.Solver.MaxOperand
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

	logger.Debug("starting hint search",
		zap.Int("length", opts.Length),
		zap.Int("rows", len(cons.Rows)),
		zap.Int("max_results", opts.MaxResults))

	start := time.Now()
	equations, err := hint.Search(ctx, cons, opts)
	if err != nil {
		return err
	}
	logger.Debug("hint search finished",
		zap.Int("candidates", len(equations)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("timed_out", ctx.Err() != nil))

	if len(equations) == 0 {
		fmt.Println("no hint available")
		return nil
	}
	for i, eq := range equations {
		fmt.Printf("[%2d] %s\n", i+1, eq)
	}
	return nil
}
