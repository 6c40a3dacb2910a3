// Package logs печатает сообщения CLI в stdout и stderr.
package logs

import (
	"fmt"
	"io"
	"os"
)

// Printer пишет сообщения пользователю. Подробные сообщения печатаются только в verbose-режиме.
type Printer struct {
	out     io.Writer
	err     io.Writer
	verbose bool
}

// New создает Printer поверх stdout и stderr.
func New() *Printer {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters создает Printer с произвольными потоками.
func NewWithWriters(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

// ConfigureVerbosity включает или выключает подробный вывод.
func (p *Printer) ConfigureVerbosity(v bool) {
	p.verbose = v
}

// Print logs a message to stdout, with optional format args.
func (p *Printer) Print(message string, fmtArgs ...any) {
	write(p.out, message, fmtArgs)
}

// Printv logs a message to stdout, with optional format args, if verbosity is enabled.
func (p *Printer) Printv(message string, fmtArgs ...any) {
	if p.verbose {
		write(p.out, "[verbose] "+message, fmtArgs)
	}
}

// Error logs a message to stderr, with optional format args.
func (p *Printer) Error(message string, fmtArgs ...any) {
	write(p.err, message, fmtArgs)
}

func write(w io.Writer, message string, fmtArgs []any) {
	s := message + "\n"
	if len(fmtArgs) > 0 {
		s = fmt.Sprintf(s, fmtArgs...)
	}
	_, _ = io.WriteString(w, s)
}
