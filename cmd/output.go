package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// printer writes user-facing status lines. Logs go to stderr through the
// structured logger; this is the human summary.
type printer struct {
	w       io.Writer
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	info    *color.Color
	dim     *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:       w,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		info:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
	}
}

func (p *printer) Success(format string, args ...interface{}) {
	p.success.Fprint(p.w, "✓ ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Warn(format string, args ...interface{}) {
	p.warn.Fprint(p.w, "! ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Info(format string, args ...interface{}) {
	p.info.Fprint(p.w, "• ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Detail(format string, args ...interface{}) {
	p.dim.Fprintf(p.w, "    "+format+"\n", args...)
}

func (p *printer) Failure(err error) {
	p.fail.Fprint(p.w, "✗ ")
	fmt.Fprintln(p.w, err)
}
