package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/sieve/internal/render"
	"github.com/rshade/sieve/internal/sieve"
)

func computedBatches(t *testing.T, minPower, magnitude uint) []*sieve.Batch {
	t.Helper()
	s, err := sieve.NewSpace(magnitude, sieve.WithMinPower(minPower))
	require.NoError(t, err)
	require.NoError(t, s.ComputeAll(context.Background()))
	return s.Completed()
}

func TestRender_List(t *testing.T) {
	var buf bytes.Buffer
	err := render.Render(&buf, computedBatches(t, 4, 4), render.Options{Format: render.FormatList})
	require.NoError(t, err)
	assert.Equal(t, "[00-16) 2 3 5 7 11 13\n", buf.String())
}

func TestRender_ListAcrossBatches(t *testing.T) {
	var buf bytes.Buffer
	err := render.Render(&buf, computedBatches(t, 3, 5), render.Options{Format: render.FormatList})
	require.NoError(t, err)

	want := "[00-08) 2 3 5 7\n" +
		"[08-24) 11 13 17 19 23\n" +
		"[24-56) 29 31 37 41 43 47 53\n"
	assert.Equal(t, want, buf.String())
}

func TestRender_Dots(t *testing.T) {
	batches := computedBatches(t, 4, 4)

	t.Run("single row", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render.Render(&buf, batches, render.Options{Format: render.FormatDots}))
		assert.Equal(t, "[00-16) ..  . . ... . ..\n", buf.String())
	})

	t.Run("wrapped rows are indented under the header", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render.Render(&buf, batches, render.Options{Format: render.FormatDots, RowWidth: 8}))
		assert.Equal(t, "[00-16) ..  . . \n        ... . ..\n", buf.String())
	})
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := render.Render(&buf, computedBatches(t, 4, 4), render.Options{Format: "table"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	require.NoError(t, render.Render[*sieve.Batch](&buf, nil, render.Options{Format: "table"}))
}

func TestRender_LargeListFlushes(t *testing.T) {
	var buf bytes.Buffer
	batches := computedBatches(t, 8, 14)
	require.NoError(t, render.Render(&buf, batches, render.Options{}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(batches))
	assert.True(t, strings.HasPrefix(lines[0], "[00000-00256) 2 3 5 7 "))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "[16128-32512) 16139 16141 "))
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "[0000-0256)", render.Header(0, 256, 4))
	assert.Equal(t, "[256-768)", render.Header(256, 768, 3))
	assert.Equal(t, len("[00000-32512)"), render.HeaderWidth(32512))
}

func TestSummary(t *testing.T) {
	s := render.Summary{Primes: 12232, Total: 130816, Batches: 9}
	assert.Equal(t, "12,232 primes below 130,816 in 9 batches", s.String())
	assert.Equal(t, "6 primes below 16 in 1 batch", render.Summary{Primes: 6, Total: 16, Batches: 1}.String())

	var buf bytes.Buffer
	require.NoError(t, render.WriteSummary(&buf, s, false))
	assert.Equal(t, s.String()+"\n", buf.String())
}
