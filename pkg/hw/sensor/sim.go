package sensor

import (
	"math"
	"sync"
)

// Simulated produces deterministic waveforms for both sensors.
// Temperature sweeps 10..55 C so all LED states are visited.
type Simulated struct {
	// Period is the number of reads of a full waveform cycle.
	Period int

	lock        sync.Mutex
	lightStep   int
	climateStep int
}

// NewSimulated creates a Simulated sensor pair.
func NewSimulated() *Simulated {
	return &Simulated{Period: 60}
}

func (s *Simulated) phase(step int) float64 {
	period := s.Period
	if period <= 0 {
		period = 60
	}
	return 2 * math.Pi * float64(step%period) / float64(period)
}

// ReadLux implements LightSensor.
func (s *Simulated) ReadLux() uint16 {
	s.lock.Lock()
	defer s.lock.Unlock()
	ph := s.phase(s.lightStep)
	s.lightStep++
	return uint16(400 + 350*math.Sin(ph))
}

// ReadClimate implements ClimateSensor.
func (s *Simulated) ReadClimate() (float32, float32) {
	s.lock.Lock()
	defer s.lock.Unlock()
	ph := s.phase(s.climateStep)
	s.climateStep++
	temp := 32.5 - 22.5*math.Cos(ph)
	hum := 55 + 25*math.Sin(ph)
	return float32(math.Round(temp*10) / 10), float32(math.Round(hum*10) / 10)
}
