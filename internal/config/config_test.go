package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/sieve/internal/config"
	"github.com/rshade/sieve/internal/logging"
	"github.com/rshade/sieve/internal/sieve"
)

// isolateHome points SIEVE_HOME at a fresh directory and clears overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvMinPower, "")
	t.Setenv(config.EnvWorkers, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg := config.New()
	assert.Equal(t, config.DefaultMinPower, cfg.Sieve.MinPower)
	assert.Equal(t, config.DefaultMagnitude, cfg.Sieve.DefaultMagnitude)
	assert.Equal(t, 1, cfg.Sieve.Workers)
	assert.Equal(t, config.FormatList, cfg.Output.Format)
	assert.True(t, cfg.Output.Display)
	assert.Equal(t, config.DefaultRowWidth, cfg.Output.RowWidth)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	require.NoError(t, cfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	isolateHome(t)

	cfg := config.New()
	cfg.Sieve.MinPower = 10
	cfg.Output.Format = config.FormatDots
	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded := config.New()
	assert.Equal(t, uint(10), reloaded.Sieve.MinPower)
	assert.Equal(t, config.FormatDots, reloaded.Output.Format)
	assert.True(t, reloaded.Output.Display)
}

func TestSave_NoPath(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, cfg.Save())
}

func TestEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvMinPower, "5")
	t.Setenv(config.EnvWorkers, "4")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvOutputFormat, "dots")

	cfg := config.New()
	assert.Equal(t, uint(5), cfg.Sieve.MinPower)
	assert.Equal(t, 4, cfg.Sieve.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatDots, cfg.Output.Format)

	t.Setenv(config.EnvWorkers, "many")
	assert.Equal(t, 1, config.New().Sieve.Workers, "unparseable values are ignored")
}

func TestLoad(t *testing.T) {
	t.Run("overlay wins over file, env wins over overlay", func(t *testing.T) {
		isolateHome(t)
		base := config.New()
		base.Sieve.MinPower = 6
		require.NoError(t, base.Save())

		overlay := writeOverlay(t, "sieve:\n  min_power: 4\n  workers: 2\n")
		t.Setenv(config.EnvWorkers, "3")

		cfg, err := config.Load(overlay)
		require.NoError(t, err)
		assert.Equal(t, uint(4), cfg.Sieve.MinPower)
		assert.Equal(t, 3, cfg.Sieve.Workers)
	})

	t.Run("missing overlay", func(t *testing.T) {
		isolateHome(t)
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		isolateHome(t)
		overlay := writeOverlay(t, "sieve:\n  min_power: 1\n  workers: 0\noutput:\n  format: table\n  row_width: -1\n")
		_, err := config.Load(overlay)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sieve.min_power")
		assert.Contains(t, err.Error(), "sieve.workers")
		assert.Contains(t, err.Error(), "output.format")
		assert.Contains(t, err.Error(), "output.row_width")
	})
}

func TestDefaults_MatchSieveLayout(t *testing.T) {
	assert.Equal(t, sieve.DefaultMinPower, config.DefaultMinPower)
	assert.Equal(t, sieve.DefaultMagnitude, config.DefaultMagnitude)

	cfg := config.Default()
	cfg.Sieve.MinPower = sieve.MinPowerFloor
	require.NoError(t, cfg.Validate())

	cfg.Sieve.MinPower = sieve.MinPowerFloor - 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sieve.min_power must be >= 2")
}

func TestNew_MalformedGlobalFile(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: dots\nsieve: [unterminated\n"), 0600))

	cfg := config.New()
	require.Error(t, cfg.LoadError())
	assert.Contains(t, cfg.LoadError().Error(), path)
	assert.Equal(t, config.FormatList, cfg.Output.Format, "nothing from the broken file is applied")
	assert.Equal(t, path, cfg.ConfigPath())

	loaded, err := config.Load("")
	require.NoError(t, err)
	require.Error(t, loaded.LoadError())

	require.NoError(t, os.WriteFile(path, []byte("sieve:\n  min_power: 5\n"), 0600))
	assert.NoError(t, config.New().LoadError())
}

func TestShallowMergeYAML(t *testing.T) {
	t.Run("partial section keeps defaults of that section", func(t *testing.T) {
		target := config.Default()
		target.Logging.Level = "warn"
		overlay := writeOverlay(t, "output:\n  format: dots\n")

		require.NoError(t, config.ShallowMergeYAML(target, overlay))
		assert.Equal(t, config.FormatDots, target.Output.Format)
		assert.True(t, target.Output.Display)
		assert.Equal(t, config.DefaultRowWidth, target.Output.RowWidth)
		assert.Equal(t, "warn", target.Logging.Level, "absent section is untouched")
	})

	t.Run("section replacement", func(t *testing.T) {
		target := config.Default()
		target.Sieve.Workers = 8
		overlay := writeOverlay(t, "sieve:\n  min_power: 3\n")

		require.NoError(t, config.ShallowMergeYAML(target, overlay))
		assert.Equal(t, uint(3), target.Sieve.MinPower)
		assert.Equal(t, 1, target.Sieve.Workers, "fields missing from a present section reset to defaults")
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		target := config.Default()
		overlay := writeOverlay(t, "plugins:\n  foo: bar\nlogging:\n  level: trace\n")
		require.NoError(t, config.ShallowMergeYAML(target, overlay))
		assert.Equal(t, "trace", target.Logging.Level)
	})

	t.Run("empty file", func(t *testing.T) {
		target := config.Default()
		overlay := writeOverlay(t, "# nothing here\n")
		require.NoError(t, config.ShallowMergeYAML(target, overlay))
		assert.Equal(t, config.Default(), target)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		overlay := writeOverlay(t, "sieve: [unterminated\n")
		assert.Error(t, config.ShallowMergeYAML(config.Default(), overlay))
	})

	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(nil, "x.yaml"))
	})
}

func TestGlobalConfig(t *testing.T) {
	isolateHome(t)

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, config.GetGlobalConfig())

	config.ResetGlobalConfigForTest()
	assert.NotSame(t, cfg, config.GetGlobalConfig())

	custom := config.Default()
	custom.Logging.Level = "error"
	custom.Logging.File = "/tmp/sieve-test.log"
	config.SetGlobalConfig(custom)
	assert.Equal(t, "error", config.GetLogLevel())
	assert.Equal(t, "/tmp/sieve-test.log", config.GetLogFile())
	assert.Equal(t, custom.Logging, config.GetLoggingConfig())
}

func TestEnsureDirs(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, config.EnsureConfigDir())
	stat, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	custom := config.Default()
	custom.Logging.File = filepath.Join(home, "logs", "sieve.log")
	config.SetGlobalConfig(custom)
	require.NoError(t, config.EnsureLogDir())
	stat, err = os.Stat(filepath.Join(home, "logs"))
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	assert.Equal(t, logging.Config{Level: "debug", Format: "json", Output: logging.OutputStderr}, lc.ToLoggingConfig())

	lc.File = "/var/log/sieve.log"
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/var/log/sieve.log", got.File)
}
