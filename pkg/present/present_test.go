package present

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/senselink/pkg/link"
)

type fakeSurface struct {
	calls   []string
	texts   []string
	flushes int
	err     error
}

func (s *fakeSurface) Clear() {
	s.calls, s.texts = append(s.calls[:0], "clear"), nil
}

func (s *fakeSurface) Rect(x, y, w, h int)     { s.calls = append(s.calls, "rect") }
func (s *fakeSurface) Line(x0, y0, x1, y1 int) { s.calls = append(s.calls, "line") }

func (s *fakeSurface) Text(str string, x, y int) {
	s.calls = append(s.calls, "text")
	s.texts = append(s.texts, str)
}

func (s *fakeSurface) Flush() error {
	s.flushes++
	return s.err
}

type fakeLED struct {
	r, g, b bool
	sets    int
	err     error
}

func (l *fakeLED) Set(r, g, b bool) error {
	l.sets++
	if l.err != nil {
		return l.err
	}
	l.r, l.g, l.b = r, g, b
	return nil
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		t     float32
		state LedState
	}{
		{45.0, Normal},
		{45.01, Hot},
		{20.0, Normal},
		{19.99, Cold},
		{25.0, Normal},
		{-40, Cold},
		{float32(math.Inf(1)), Hot},
		{float32(math.NaN()), Normal},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.state, Classify(tc.t), "t=%v", tc.t)
	}
}

func TestLedStateRGB(t *testing.T) {
	testCases := []struct {
		state   LedState
		r, g, b bool
		name    string
	}{
		{Hot, true, false, false, "HOT"},
		{Cold, true, false, true, "COLD"},
		{Normal, false, true, false, "NORMAL"},
	}
	for _, tc := range testCases {
		r, g, b := tc.state.RGB()
		require.Equal(t, []bool{tc.r, tc.g, tc.b}, []bool{r, g, b})
		require.Equal(t, tc.name, tc.state.String())
	}
}

func TestPresent(t *testing.T) {
	testCases := []struct {
		reading link.Reading
		values  []string
		state   LedState
		rgb     []bool
	}{
		{
			link.Reading{Temperature: 50, Humidity: 60, Luminance: 300},
			[]string{"300", "50.0", "60.0"},
			Hot, []bool{true, false, false},
		},
		{
			link.Reading{Temperature: 15, Humidity: 40.5, Luminance: 0},
			[]string{"0", "15.0", "40.5"},
			Cold, []bool{true, false, true},
		},
		{
			link.Reading{Temperature: 25, Humidity: 50, Luminance: 1200},
			[]string{"1200", "25.0", "50.0"},
			Normal, []bool{false, true, false},
		},
	}
	for _, tc := range testCases {
		s, l := &fakeSurface{}, &fakeLED{}
		p := &Presenter{Display: s, LED: l}
		require.Equal(t, tc.state, p.Present(tc.reading))
		require.Equal(t, "clear", s.calls[0])
		require.Equal(t, 1, s.flushes)
		for _, v := range tc.values {
			require.Contains(t, s.texts, v)
		}
		require.Equal(t, tc.rgb, []bool{l.r, l.g, l.b})
	}
}

func TestPresentIgnoresOutputFailures(t *testing.T) {
	s := &fakeSurface{err: errors.New("i2c nack")}
	l := &fakeLED{err: errors.New("gpio busy")}
	p := &Presenter{Display: s, LED: l}
	require.Equal(t, Hot, p.Present(link.Reading{Temperature: 46}))
	require.Equal(t, 1, s.flushes)
	require.Equal(t, 1, l.sets)
	require.False(t, l.r)

	require.Equal(t, Cold, (&Presenter{}).Present(link.Reading{Temperature: 0}))
}
