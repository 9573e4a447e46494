// Package output carries the writer for primary data (trees, tables, JSON).
// Diagnostics go through the log package on stderr instead.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
)

type ctxKey struct{}

// Printer writes primary output to stdout.
type Printer struct {
	w       io.Writer
	profile colorprofile.Profile
}

// New creates a Printer writing to w unchanged.
func New(w io.Writer) *Printer {
	return &Printer{w: w, profile: colorprofile.TrueColor}
}

// NewTerminal creates a Printer that downsamples ANSI styling to what the
// destination supports: plain text when piped or when NO_COLOR is set.
func NewTerminal(w io.Writer, environ []string) *Printer {
	cw := colorprofile.NewWriter(w, environ)
	return &Printer{w: cw, profile: cw.Profile}
}

// WithPrinter attaches a Printer writing to w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// WithTerminalPrinter attaches a colour-aware Printer to the context.
func WithTerminalPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, NewTerminal(w, os.Environ()))
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Styled reports whether the destination keeps ANSI styling.
func (p *Printer) Styled() bool {
	return p.profile > colorprofile.NoTTY
}
