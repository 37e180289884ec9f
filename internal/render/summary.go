package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Summary describes the outcome of a sieve run.
type Summary struct {
	Primes  int
	Total   uint64
	Batches int
}

// String formats the summary with thousand separators,
// e.g. "12,232 primes below 130,816 in 9 batches".
func (s Summary) String() string {
	noun := "batches"
	if s.Batches == 1 {
		noun = "batch"
	}
	return printer.Sprintf("%d primes below %d in %d %s", s.Primes, s.Total, s.Batches, noun)
}

// WriteSummary writes the summary line, styled when requested.
func WriteSummary(w io.Writer, s Summary, styled bool) error {
	line := s.String()
	if styled {
		line = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246")).Render(line)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
