package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/sieve/internal/config"
	"github.com/rshade/sieve/internal/engine/chunk"
	"github.com/rshade/sieve/internal/logging"
	"github.com/rshade/sieve/internal/render"
	"github.com/rshade/sieve/internal/sieve"
)

// runOptions is the effective configuration of one sieve run after
// merging flags over config.
type runOptions struct {
	Magnitude uint
	MinPower  uint
	Workers   int
	Display   bool
	Format    string
	RowWidth  int
}

// validateSizeArg rejects a size argument that is not a non-negative integer.
func validateSizeArg(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if _, err := parseSize(args[0]); err != nil {
		return err
	}
	return nil
}

// parseSize parses the magnitude argument.
func parseSize(arg string) (uint, error) {
	n, err := strconv.ParseUint(arg, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: expected a power of two exponent such as 10 or 24", arg)
	}
	return uint(n), nil
}

// resolveRunOptions merges explicitly set flags over the configuration.
func resolveRunOptions(cmd *cobra.Command, args []string, cfg *config.Config, flags sieveFlags) (runOptions, error) {
	opts := runOptions{
		Magnitude: cfg.Sieve.DefaultMagnitude,
		MinPower:  cfg.Sieve.MinPower,
		Workers:   cfg.Sieve.Workers,
		Display:   cfg.Output.Display,
		Format:    cfg.Output.Format,
		RowWidth:  cfg.Output.RowWidth,
	}

	if len(args) == 1 {
		size, err := parseSize(args[0])
		if err != nil {
			return opts, err
		}
		opts.Magnitude = size
	}
	if cmd.Flags().Changed("min-power") {
		opts.MinPower = flags.MinPower
	}
	if cmd.Flags().Changed("workers") {
		if flags.Workers < 1 {
			return opts, fmt.Errorf("workers must be >= 1, got %d", flags.Workers)
		}
		opts.Workers = flags.Workers
	}
	if cmd.Flags().Changed("row-width") {
		if flags.RowWidth < 0 {
			return opts, fmt.Errorf("row-width must be >= 0, got %d", flags.RowWidth)
		}
		opts.RowWidth = flags.RowWidth
	}
	if flags.NoDisplay {
		opts.Display = false
	}
	if flags.Dots {
		opts.Format = render.FormatDots
	}

	return opts, nil
}

// runSieve builds the space, drains it and renders the result.
func runSieve(cmd *cobra.Command, args []string, flags sieveFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	opts, err := resolveRunOptions(cmd, args, config.GetGlobalConfig(), flags)
	if err != nil {
		return err
	}

	space, err := sieve.NewSpace(opts.Magnitude,
		sieve.WithMinPower(opts.MinPower),
		sieve.WithWorkers(opts.Workers),
		sieve.WithLogger(logging.ComponentLogger(*log, "space")),
		sieve.WithProgress(func(s chunk.ProgressSnapshot) {
			log.Trace().
				Int("batches_done", s.ProcessedSteps).
				Int("batches_total", s.TotalSteps).
				Float64("percent", s.PercentComplete).
				Float64("numbers_per_sec", s.ItemsPerSecond).
				Msg("progress")
		}),
	)
	if err != nil {
		return fmt.Errorf("building sieve space: %w", err)
	}

	if err = space.ComputeAll(ctx); err != nil {
		return fmt.Errorf("computing primes: %w", err)
	}

	out := cmd.OutOrStdout()
	tty, styled := terminalFile(out)
	completed := space.Completed()

	if opts.Display {
		rowWidth := opts.RowWidth
		if styled && opts.Format == render.FormatDots {
			rowWidth = fitRowWidth(tty, rowWidth, render.HeaderWidth(space.Total()))
		}
		renderOpts := render.Options{Format: opts.Format, RowWidth: rowWidth, Styled: styled}
		if err = render.Render(out, completed, renderOpts); err != nil {
			return fmt.Errorf("rendering primes: %w", err)
		}
	}

	return render.WriteSummary(out, render.Summary{
		Primes:  space.Count(),
		Total:   space.Total(),
		Batches: len(completed),
	}, styled)
}

// fitRowWidth shrinks the dot-grid row so header plus row fit the terminal
// behind f. The row width is kept when f has no terminal size.
func fitRowWidth(f *os.File, rowWidth, headerWidth int) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return rowWidth
	}
	avail := width - headerWidth - 1
	if avail < 1 {
		return rowWidth
	}
	if rowWidth == 0 || rowWidth > avail {
		return avail
	}
	return rowWidth
}
