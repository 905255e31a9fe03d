package cli

import (
	"io"
	"os"

	"github.com/funvibe/jsynth/internal/strategies"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

// useColor reports whether w is a terminal that accepts ANSI colors.
func useColor(w io.Writer, disabled bool) bool {
	if disabled {
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorize(w io.Writer, disabled bool, color, s string) string {
	if !useColor(w, disabled) {
		return s
	}
	return color + s + colorReset
}

var groupColors = map[string]string{
	strategies.GroupValue:      colorGreen,
	strategies.GroupFunction:   colorBlue,
	strategies.GroupProperty:   colorCyan,
	strategies.GroupOperator:   colorYellow,
	strategies.GroupControl:    colorRed,
	strategies.GroupWasm:       colorBlue,
	strategies.GroupRegression: colorDim,
}
