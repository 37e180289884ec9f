package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/sieve/internal/config"
	"github.com/rshade/sieve/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalFile returns w as a file when it is a terminal. Buffers used in
// tests are never terminals.
func terminalFile(w io.Writer) (*os.File, bool) {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		return f, true
	}
	return nil, false
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// sieveFlags holds the flags of the root command.
type sieveFlags struct {
	NoDisplay bool
	Dots      bool
	MinPower  uint
	Workers   int
	RowWidth  int
}

// NewRootCmd creates the root Cobra command for the sieve CLI.
// It loads configuration, wires logging and runs the segmented sieve on the
// optional size argument.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
		flags      sieveFlags
	)

	cmd := &cobra.Command{
		Use:   "sieve [size]",
		Short: "Optimized Eratosthenes sieve",
		Long: `Computes prime numbers with an incrementally growing segmented sieve of
Eratosthenes. size is a power of two: the last batch covers 2^size numbers
and every earlier batch is half as large as the next one.`,
		Version:       ver,
		Example:       rootCmdExample,
		Args:          cobra.MatchAll(cobra.MaximumNArgs(1), validateSizeArg),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			if loadErr := cfg.LoadError(); loadErr != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring configuration file: %v\n", loadErr)
			}

			result := setupLogging(cmd, cfg, ver)
			logResult = &result
			if loadErr := cfg.LoadError(); loadErr != nil {
				logger.Warn().Err(loadErr).Str("path", cfg.ConfigPath()).Msg("configuration file ignored")
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSieve(cmd, args, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file merged over ~/.sieve/config.yaml")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to the console")
	cmd.PersistentFlags().CountP("verbose", "v", "increase verbosity (-v debug, -vv trace)")

	cmd.Flags().BoolVarP(&flags.NoDisplay, "no-display", "q", false, "don't display the result")
	cmd.Flags().BoolVar(&flags.Dots, "dots", false, "display dots instead of values")
	cmd.Flags().UintVar(&flags.MinPower, "min-power", config.DefaultMinPower, "power of two of the first batch")
	cmd.Flags().IntVar(&flags.Workers, "workers", config.DefaultWorkers, "workers sharing each batch pass")
	cmd.Flags().IntVar(&flags.RowWidth, "row-width", config.DefaultRowWidth, "dot-grid row width, 0 to disable wrapping")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Primes below 2^17 - 2^8 with the default layout
  sieve

  # Analyze up to magnitude 24
  sieve 24

  # Dot-grid of a small range, one row per 32 numbers
  sieve 10 --dots --row-width 32

  # Time a large run without printing primes, with debug logging
  sieve 30 -q -v

  # Shard every batch across 8 workers
  sieve 28 --workers 8 -q`
