package main

import (
	"fmt"
	"os"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Status lines go to stderr so stdout stays clean for the bundle text.

func printColored(color, prefix, format string, args ...any) {
	msg := prefix + fmt.Sprintf(format, args...)
	if !noColor {
		msg = color + msg + colorReset
	}
	fmt.Fprintln(os.Stderr, msg)
}

func printSuccess(format string, args ...any) {
	printColored(colorGreen, "✓ ", format, args...)
}

func printError(format string, args ...any) {
	printColored(colorRed, "✗ ", format, args...)
}

func printWarning(format string, args ...any) {
	printColored(colorYellow, "⚠ ", format, args...)
}

func printStep(format string, args ...any) {
	printColored(colorCyan, "→ ", format, args...)
}

func printStatus(label string, format string, args ...any) {
	l := label + ":"
	if !noColor {
		l = colorBold + l + colorReset
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, fmt.Sprintf(format, args...))
}
