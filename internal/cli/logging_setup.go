package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/sieve/internal/config"
	"github.com/rshade/sieve/internal/logging"
	"github.com/rshade/sieve/pkg/version"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command, cfg *config.Config, ver string) logging.LogPathResult {
	loggingCfg := cfg.Logging

	verbosity, _ := cmd.Flags().GetCount("verbose")
	loggingCfg.Level = logging.LevelForVerbosity(loggingCfg.Level, verbosity)

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		if verbosity < 2 {
			loggingCfg.Level = "debug"
		}
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	logger = logging.ComponentLogger(result.Logger, "cli").With().Str("run_id", runID).Logger()

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx = logging.ContextWithRunID(ctx, runID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().
		Str("command", cmd.Name()).
		Str("version", ver).
		Bool("release", version.IsRelease()).
		Str("level", loggingCfg.Level).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
