package led

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Terminal shows the LED as a coloured swatch.
type Terminal struct {
	Out io.Writer

	r, g, b bool
}

// NewTerminal creates a Terminal LED.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{Out: out}
}

// Set implements RGB.
func (l *Terminal) Set(r, g, b bool) error {
	l.r, l.g, l.b = r, g, b
	if l.Out == nil {
		return nil
	}
	_, err := fmt.Fprintln(l.Out, l.Swatch())
	return err
}

// Color returns the hex colour currently shown.
func (l *Terminal) Color() string {
	return fmt.Sprintf("#%s%s%s", channel(l.r), channel(l.g), channel(l.b))
}

// Swatch renders the LED.
func (l *Terminal) Swatch() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(l.Color())).
		Render("● LED " + l.Color())
}

func channel(on bool) string {
	if on {
		return "ff"
	}
	return "00"
}
