package present

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/senselink/pkg/hw/display"
	"github.com/robotalks/senselink/pkg/hw/led"
	"github.com/robotalks/senselink/pkg/link"
)

// Layout of the reading screen.
const (
	border    = 3
	labelX    = 8
	valueX    = 70
	titleY    = 6
	firstRowY = 21
	rowHeight = 13
)

// Presenter shows readings on a display and an RGB LED.
// Either output may be nil.
type Presenter struct {
	Display display.Surface
	LED     led.RGB
}

// Present draws r and updates the LED, returning the LED state.
// Output failures are logged, the outputs keep their last state.
func (p *Presenter) Present(r link.Reading) LedState {
	if p.Display != nil {
		p.draw(r)
		if err := p.Display.Flush(); err != nil {
			glog.Warningf("display flush failed: %v", err)
		}
	}
	state := Classify(r.Temperature)
	if p.LED != nil {
		if err := p.LED.Set(state.RGB()); err != nil {
			glog.Warningf("set LED %v failed: %v", state, err)
		}
	}
	return state
}

func (p *Presenter) draw(r link.Reading) {
	d := p.Display
	d.Clear()
	d.Rect(border, border, display.Width-2*border, display.Height-2*border)
	d.Text("SENSE LINK", labelX, titleY)
	d.Line(border, firstRowY-3, display.Width-border-1, firstRowY-3)

	rows := []struct {
		label, value string
	}{
		{"Light", fmt.Sprintf("%d", r.Luminance)},
		{"Temp", fmt.Sprintf("%.1f", r.Temperature)},
		{"Humid", fmt.Sprintf("%.1f", r.Humidity)},
	}
	for n, row := range rows {
		y := firstRowY + n*rowHeight
		d.Text(row.label, labelX, y)
		d.Text(row.value, valueX, y)
	}
	d.Line(valueX-6, firstRowY-3, valueX-6, display.Height-border-1)
}
