package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTerminalWriter reports whether w is a file attached to a terminal.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// Progress reports the steps of long-running work. Interactive progress
// shows a spinner; otherwise each step is printed as a line.
type Progress struct {
	w           io.Writer
	interactive bool
	accessible  bool
}

// NewProgress returns a Progress writing to w.
func NewProgress(w io.Writer, interactive bool) *Progress {
	return &Progress{
		w:           w,
		interactive: interactive,
		accessible:  os.Getenv("ACCESSIBLE") != "",
	}
}

// Step runs fn while showing title and returns fn's error.
func (p *Progress) Step(title string, fn func() error) error {
	if !p.interactive {
		fmt.Fprintf(p.w, "%s...\n", title)
		return fn()
	}

	var stepErr error
	spinErr := spinner.New().
		Title(title + "...").
		Accessible(p.accessible).
		Output(p.w).
		Action(func() {
			stepErr = fn()
		}).
		Run()
	if spinErr != nil {
		return spinErr
	}
	if stepErr == nil {
		fmt.Fprintf(p.w, "%s %s\n", SuccessText.Render("✓"), title)
	}
	return stepErr
}
