// Command sumzle is the solver toolbox for the Sumzle numeric puzzle:
// evaluate an expression, check a guess equation, enumerate expressions that
// hit a target, or derive hint equations from board feedback.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sumzle/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sumzle",
	Short: "Sumzle expression evaluator and puzzle solver",
	Long: `sumzle evaluates Sumzle arithmetic (including the factorial !, the
permutation A and the floor bracket [x] operators) and searches the puzzle's
combinatorial space.

  sumzle eval "5!+[7/2]"          evaluate an expression
  sumzle check "3*4=12"           validate a guess equation
  sumzle solve -t 24 -k "1234*+"  find expressions reaching a target
  sumzle hint -f board.json -l 8  derive equations from board feedback`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		zc := zap.NewProductionConfig()
		if verbose || cfg.Logging.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if timeout == 0 {
			timeout = cfg.Solver.Timeout.Std()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sumzle.json", "config file path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "search timeout (default from config)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(hintCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
