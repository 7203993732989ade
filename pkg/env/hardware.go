package env

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/robotalks/senselink/pkg/hw/display"
	"github.com/robotalks/senselink/pkg/hw/led"
	"github.com/robotalks/senselink/pkg/hw/sensor"
)

// Hardware is the set of collaborators of both execution contexts.
type Hardware struct {
	Light   sensor.LightSensor
	Climate sensor.ClimateSensor
	// LocalLight is read by the consumer in best-effort policy.
	LocalLight sensor.LightSensor
	Display    display.Surface
	LED        led.RGB

	closers []io.Closer
}

// Close releases buses and devices.
func (h *Hardware) Close() error {
	var err error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if e := h.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// NewSimHardware creates simulated sensors with terminal outputs.
func NewSimHardware(out io.Writer) *Hardware {
	sim := sensor.NewSimulated()
	return &Hardware{
		Light:      sim,
		Climate:    sim,
		LocalLight: sensor.NewSimulated(),
		Display:    display.NewTerminal(out),
		LED:        led.NewTerminal(out),
	}
}

// NewPeriphHardware opens the I2C buses and GPIO pins of the board.
func (c *Config) NewPeriphHardware(needLocalLight bool) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %v", err)
	}
	hw := &Hardware{}
	buses := make(map[string]i2c.Bus)
	openBus := func(name string) (i2c.Bus, error) {
		if bus := buses[name]; bus != nil {
			return bus, nil
		}
		bus, err := i2creg.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open I2C %q: %v", name, err)
		}
		buses[name] = bus
		hw.closers = append(hw.closers, bus)
		return bus, nil
	}

	if err := c.setupPeriph(hw, openBus, needLocalLight); err != nil {
		hw.Close()
		return nil, err
	}
	return hw, nil
}

func (c *Config) setupPeriph(hw *Hardware, openBus func(string) (i2c.Bus, error), needLocalLight bool) error {
	sensorBus, err := openBus(c.I2C)
	if err != nil {
		return err
	}
	light, err := sensor.NewBH1750(sensorBus, sensor.BH1750AddrLow)
	if err != nil {
		return err
	}
	climate, err := sensor.NewAHT20(sensorBus)
	if err != nil {
		return err
	}
	hw.Light, hw.Climate = light, climate

	displayBus, err := openBus(c.DisplayI2C)
	if err != nil {
		return err
	}
	oled, err := display.NewSSD1306(displayBus)
	if err != nil {
		return err
	}
	hw.Display = oled
	hw.closers = append(hw.closers, oled)

	if needLocalLight {
		addr := sensor.BH1750AddrLow
		if c.DisplayI2C == c.I2C {
			addr = sensor.BH1750AddrHigh
		}
		if hw.LocalLight, err = sensor.NewBH1750(displayBus, addr); err != nil {
			return err
		}
	}

	if hw.LED, err = led.NewGPIO(c.LEDPins[0], c.LEDPins[1], c.LEDPins[2]); err != nil {
		glog.Warningf("LED unavailable, using terminal: %v", err)
		hw.LED = led.NewTerminal(os.Stderr)
	}
	return nil
}
