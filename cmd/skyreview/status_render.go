package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

func (k statusKind) String() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k statusKind) colors() text.Colors {
	switch k {
	case statusOK:
		return text.Colors{text.FgGreen}
	case statusWarn:
		return text.Colors{text.FgYellow}
	case statusError:
		return text.Colors{text.FgRed, text.Bold}
	default:
		return text.Colors{text.FgBlue}
	}
}

// statusPrinter writes aligned "label: [KIND] detail" lines, colored only
// when the destination is a terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) statusPrinter {
	return statusPrinter{out: out, colorize: isTerminal(out)}
}

func (p statusPrinter) line(label string, kind statusKind, detail string) {
	fmt.Fprintln(p.out, formatStatus(label, kind, detail, p.colorize))
}

func formatStatus(label string, kind statusKind, detail string, colorize bool) string {
	tag := "[" + kind.String() + "]"
	if colorize {
		tag = kind.colors().Sprint(tag)
	}
	line := fmt.Sprintf("  %-20s %s", label+":", tag)
	if detail != "" {
		line += " " + detail
	}
	return line
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
