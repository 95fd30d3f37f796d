package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultBarWidth = 30

// ProgressBar renders questionnaire progress as a single line.
type ProgressBar struct {
	Width  int
	writer io.Writer
}

// NewProgressBar creates a progress bar that writes to w. If w is nil, it
// defaults to os.Stdout.
func NewProgressBar(w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stdout
	}
	return &ProgressBar{Width: defaultBarWidth, writer: w}
}

// Render writes the bar for step (zero-based) of total with the given
// completion percentage.
func (p *ProgressBar) Render(step, total int, percent float64) {
	if total <= 0 {
		return
	}
	percent = min(max(percent, 0), 100)

	width := p.Width
	if width <= 0 {
		width = defaultBarWidth
	}
	filled := int(float64(width) * percent / 100)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	fmt.Fprintf(p.writer, "Question %d of %d [%s] %.0f%%\n", step+1, total, bar, percent)
}
