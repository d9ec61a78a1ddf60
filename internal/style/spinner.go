package style

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner is the minimal progress-indicator surface the CLI needs, so tests
// can swap the terminal spinner for a line-oriented one.
type Spinner interface {
	SetSuffix(suffix string)
	SetFinalMSG(finalMSG string)
	Start()
	Stop()
}

// TerminalSpinner wraps the briandowns spinner for interactive terminals.
type TerminalSpinner struct {
	spinner *spinner.Spinner
}

func NewTerminalSpinner(w io.Writer) *TerminalSpinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	_ = s.Color("cyan")
	return &TerminalSpinner{spinner: s}
}

func (s *TerminalSpinner) SetSuffix(suffix string) {
	s.spinner.Suffix = suffix
}

func (s *TerminalSpinner) SetFinalMSG(finalMSG string) {
	s.spinner.FinalMSG = finalMSG
}

func (s *TerminalSpinner) Start() {
	s.spinner.Start()
}

func (s *TerminalSpinner) Stop() {
	s.spinner.Stop()
}

// LineSpinner writes each update on its own line instead of redrawing, which
// keeps test and CI output readable.
type LineSpinner struct {
	Writer   io.Writer
	color    func(a ...interface{}) string
	finalMSG string
}

func NewLineSpinner(w io.Writer) *LineSpinner {
	return &LineSpinner{
		Writer: w,
		color:  color.New(color.FgCyan).SprintFunc(),
	}
}

func (s *LineSpinner) SetSuffix(suffix string) {
	fmt.Fprintf(s.Writer, "%s%s\n", s.color("*"), suffix)
}

func (s *LineSpinner) SetFinalMSG(finalMSG string) {
	s.finalMSG = finalMSG
}

func (s *LineSpinner) Start() {}

func (s *LineSpinner) Stop() {
	if s.finalMSG != "" {
		fmt.Fprint(s.Writer, s.finalMSG)
	}
}

// NewSpinner picks the spinner implementation: line-oriented under test,
// terminal otherwise.
func NewSpinner(w io.Writer) Spinner {
	if os.Getenv("MIMIC_TEST") == "true" {
		return NewLineSpinner(w)
	}
	return NewTerminalSpinner(w)
}
