// Package led drives the tri-colour status LED.
package led

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// RGB is a common-cathode RGB LED with one digital channel per colour.
type RGB interface {
	Set(r, g, b bool) error
}

// Default pin names.
const (
	DefaultRedPin   = "GPIO13"
	DefaultGreenPin = "GPIO11"
	DefaultBluePin  = "GPIO12"
)

// GPIO drives the LED through three output pins.
type GPIO struct {
	Red, Green, Blue gpio.PinOut
}

// NewGPIO looks up the named pins from the GPIO registry.
func NewGPIO(red, green, blue string) (*GPIO, error) {
	var pins [3]gpio.PinIO
	for n, name := range []string{red, green, blue} {
		if pins[n] = gpioreg.ByName(name); pins[n] == nil {
			return nil, fmt.Errorf("led: unknown pin %q", name)
		}
	}
	l := &GPIO{Red: pins[0], Green: pins[1], Blue: pins[2]}
	return l, l.Set(false, false, false)
}

// Set implements RGB.
func (l *GPIO) Set(r, g, b bool) error {
	if err := l.Red.Out(gpio.Level(r)); err != nil {
		return fmt.Errorf("led: red: %v", err)
	}
	if err := l.Green.Out(gpio.Level(g)); err != nil {
		return fmt.Errorf("led: green: %v", err)
	}
	if err := l.Blue.Out(gpio.Level(b)); err != nil {
		return fmt.Errorf("led: blue: %v", err)
	}
	return nil
}
