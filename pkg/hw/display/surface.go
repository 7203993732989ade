// Package display provides drawing surfaces for the readings.
package display

// Surface is the minimal drawing contract of a monochrome display.
// Drawing calls only change a pending frame, Flush commits it.
type Surface interface {
	// Clear blanks the pending frame.
	Clear()
	// Rect draws the outline of a rectangle.
	Rect(x, y, w, h int)
	// Line draws a line between two points, both inclusive.
	Line(x0, y0, x1, y1 int)
	// Text draws a string with its top-left corner at x, y.
	Text(s string, x, y int)
	// Flush commits the pending frame to the device.
	Flush() error
}

// Display geometry of the 0.96" SSD1306 module.
const (
	Width  = 128
	Height = 64
)
