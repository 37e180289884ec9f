package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalFile(t *testing.T) {
	_, ok := terminalFile(&bytes.Buffer{})
	assert.False(t, ok)

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	got, ok := terminalFile(f)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestFitRowWidth_UsesGivenFile(t *testing.T) {
	// A regular file has no terminal size, whatever os.Stdout is attached to.
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, 64, fitRowWidth(f, 64, 13))
	assert.Equal(t, 0, fitRowWidth(f, 0, 13))
}
