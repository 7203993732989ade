package display

import (
	"fmt"
	"image"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/devices/ssd1306"
)

// SSD1306 is the OLED panel with its framebuffer.
type SSD1306 struct {
	*Frame
	Dev *ssd1306.Dev
}

// NewSSD1306 opens a 128x64 SSD1306 panel on the I2C bus.
func NewSSD1306(bus i2c.Bus) (*SSD1306, error) {
	opts := ssd1306.DefaultOpts
	opts.W, opts.H = Width, Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %v", err)
	}
	frame, err := clearPanel(dev)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: clear: %v", err)
	}
	return &SSD1306{Frame: frame, Dev: dev}, nil
}

// Close turns the panel off.
func (d *SSD1306) Close() error {
	return d.Dev.Halt()
}

type panel interface {
	Committer
	Bounds() image.Rectangle
	Halt() error
}

// clearPanel blanks the panel, turning it off if that fails.
func clearPanel(p panel) (*Frame, error) {
	f := NewFrame(p.Bounds(), p)
	f.Clear()
	if err := f.Flush(); err != nil {
		if e := p.Halt(); e != nil {
			glog.Warningf("ssd1306: halt: %v", e)
		}
		return nil, err
	}
	return f, nil
}
