package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal renders the text content of each frame to a writer, inside a
// bordered box. Geometry calls only mark dividers.
type Terminal struct {
	Out   io.Writer
	Style lipgloss.Style

	texts    []termText
	dividers []int
	frame    string
}

const dividerWidth = 20

type termText struct {
	x, y int
	s    string
}

// NewTerminal creates a Terminal surface.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		Out: out,
		Style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
	}
}

// Clear implements Surface.
func (t *Terminal) Clear() {
	t.texts, t.dividers = nil, nil
}

// Rect implements Surface.
func (t *Terminal) Rect(x, y, w, h int) {}

// Line implements Surface. Horizontal lines become dividers.
func (t *Terminal) Line(x0, y0, x1, y1 int) {
	if y0 == y1 {
		t.dividers = append(t.dividers, y0)
	}
}

// Text implements Surface.
func (t *Terminal) Text(s string, x, y int) {
	t.texts = append(t.texts, termText{x: x, y: y, s: s})
}

// Frame returns the last flushed frame.
func (t *Terminal) Frame() string {
	return t.frame
}

// Flush implements Surface.
func (t *Terminal) Flush() error {
	texts := append([]termText(nil), t.texts...)
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].y != texts[j].y {
			return texts[i].y < texts[j].y
		}
		return texts[i].x < texts[j].x
	})
	dividers := append([]int(nil), t.dividers...)
	sort.Ints(dividers)

	var rows []string
	var row []string
	rowY := -1
	for _, txt := range texts {
		for len(dividers) > 0 && dividers[0] < txt.y {
			if row != nil {
				rows, row = append(rows, strings.Join(row, " ")), nil
			}
			rows = append(rows, strings.Repeat("─", dividerWidth))
			dividers = dividers[1:]
		}
		if txt.y != rowY && row != nil {
			rows, row = append(rows, strings.Join(row, " ")), nil
		}
		rowY = txt.y
		row = append(row, txt.s)
	}
	if row != nil {
		rows = append(rows, strings.Join(row, " "))
	}
	t.frame = t.Style.Render(strings.Join(rows, "\n"))
	if t.Out == nil {
		return nil
	}
	_, err := fmt.Fprintln(t.Out, t.frame)
	return err
}
