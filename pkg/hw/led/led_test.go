package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

func TestGPIO(t *testing.T) {
	red := &gpiotest.Pin{N: "R", L: gpio.High}
	green := &gpiotest.Pin{N: "G"}
	blue := &gpiotest.Pin{N: "B"}
	l := &GPIO{Red: red, Green: green, Blue: blue}

	testCases := []struct {
		r, g, b bool
	}{
		{true, false, false},
		{true, false, true},
		{false, true, false},
		{false, false, false},
	}
	for _, tc := range testCases {
		require.NoError(t, l.Set(tc.r, tc.g, tc.b))
		require.Equal(t, gpio.Level(tc.r), red.Read())
		require.Equal(t, gpio.Level(tc.g), green.Read())
		require.Equal(t, gpio.Level(tc.b), blue.Read())
	}
}

func TestNewGPIOUnknownPin(t *testing.T) {
	_, err := NewGPIO("NOPE1", "NOPE2", "NOPE3")
	require.Error(t, err)
}

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	l := NewTerminal(&out)
	testCases := []struct {
		r, g, b bool
		color   string
	}{
		{true, false, false, "#ff0000"},
		{true, false, true, "#ff00ff"},
		{false, true, false, "#00ff00"},
		{false, false, false, "#000000"},
	}
	for _, tc := range testCases {
		out.Reset()
		require.NoError(t, l.Set(tc.r, tc.g, tc.b))
		require.Equal(t, tc.color, l.Color())
		require.Contains(t, out.String(), tc.color)
	}
}
