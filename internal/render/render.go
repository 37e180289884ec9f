// Package render writes the primes of completed batches to a terminal or a
// plain writer.
//
// Two strategies exist, selected by configuration: a dot-grid, where every
// number of a batch is one glyph (a space for a prime, a period for a
// composite), and an explicit ascending list of prime values. Every batch is
// prefixed by its range, zero-padded to the width of the largest endpoint.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Glyphs of the dot-grid.
const (
	PrimeGlyph     = ' '
	CompositeGlyph = '.'
)

// Format names.
const (
	FormatList = "list"
	FormatDots = "dots"
)

// Batch is the read-only view of a completed batch needed for rendering.
type Batch interface {
	Start() uint64
	End() uint64
	IsComposite(n uint64) bool
}

// Options controls rendering.
type Options struct {
	// Format selects the strategy: FormatList or FormatDots.
	Format string
	// RowWidth wraps dot-grid rows after this many glyphs; 0 disables wrapping.
	RowWidth int
	// Styled enables terminal styling of range headers.
	Styled bool
}

// strategy renders the body of one batch after its header.
type strategy func(w io.Writer, b Batch, indent string, opts Options) error

// Render writes every batch in order. Batches must be in ascending start order.
func Render[B Batch](w io.Writer, batches []B, opts Options) error {
	if len(batches) == 0 {
		return nil
	}

	body, err := strategyFor(opts.Format)
	if err != nil {
		return err
	}

	width := digits(batches[len(batches)-1].End())
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	for _, b := range batches {
		header := Header(b.Start(), b.End(), width)
		indent := strings.Repeat(" ", len(header)+1)
		if opts.Styled {
			header = headerStyle.Render(header)
		}
		if _, err = fmt.Fprint(w, header, " "); err != nil {
			return err
		}
		if err = body(w, b, indent, opts); err != nil {
			return err
		}
		if _, err = fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Header formats the range [start, end) zero-padded to width digits.
func Header(start, end uint64, width int) string {
	return fmt.Sprintf("[%0*d-%0*d)", width, start, width, end)
}

// HeaderWidth returns the length of a range header for a layout whose
// largest endpoint is total.
func HeaderWidth(total uint64) int {
	return len(Header(total, total, digits(total)))
}

// strategyFor maps a format name onto its strategy.
func strategyFor(format string) (strategy, error) {
	switch format {
	case FormatList, "":
		return renderList, nil
	case FormatDots:
		return renderDots, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// renderList writes the primes of b separated by single spaces.
func renderList(w io.Writer, b Batch, _ string, _ Options) error {
	buf := make([]byte, 0, 64)
	first := true
	for n := b.Start(); n < b.End(); n++ {
		if b.IsComposite(n) {
			continue
		}
		if !first {
			buf = append(buf, ' ')
		}
		first = false
		buf = strconv.AppendUint(buf, n, 10)
		if len(buf) >= 4096 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	_, err := w.Write(buf)
	return err
}

// renderDots writes one glyph per number of b, wrapping every RowWidth glyphs.
func renderDots(w io.Writer, b Batch, indent string, opts Options) error {
	var sb strings.Builder
	col := 0
	for n := b.Start(); n < b.End(); n++ {
		if opts.RowWidth > 0 && col == opts.RowWidth {
			sb.WriteByte('\n')
			sb.WriteString(indent)
			col = 0
		}
		if b.IsComposite(n) {
			sb.WriteByte(CompositeGlyph)
		} else {
			sb.WriteByte(PrimeGlyph)
		}
		col++
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// digits returns the number of decimal digits of n.
func digits(n uint64) int {
	return len(strconv.FormatUint(n, 10))
}
