// Package present renders readings to the display and the status LED.
package present

// LedState is the temperature class shown on the LED.
type LedState int

// LED states.
const (
	Normal LedState = iota
	Hot
	Cold
)

// Temperature thresholds, both exclusive.
const (
	HotAbove  float32 = 45.0
	ColdBelow float32 = 20.0
)

// Classify maps a temperature to its LED state.
func Classify(t float32) LedState {
	switch {
	case t > HotAbove:
		return Hot
	case t < ColdBelow:
		return Cold
	default:
		return Normal
	}
}

// RGB returns the LED channels for the state.
func (s LedState) RGB() (r, g, b bool) {
	switch s {
	case Hot:
		return true, false, false
	case Cold:
		return true, false, true
	default:
		return false, true, false
	}
}

func (s LedState) String() string {
	switch s {
	case Hot:
		return "HOT"
	case Cold:
		return "COLD"
	default:
		return "NORMAL"
	}
}
