package sensor

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/i2c"
)

// AHT20Addr is the fixed I2C address of AHT20.
const AHT20Addr uint16 = 0x38

const (
	aht20StatusBusy       byte = 0x80
	aht20StatusCalibrated byte = 0x08

	aht20ConversionTime = 80 * time.Millisecond
	aht20FullScale      = 1 << 20
)

var (
	aht20CmdInit    = []byte{0xbe, 0x08, 0x00}
	aht20CmdTrigger = []byte{0xac, 0x33, 0x00}
)

// AHT20 is the temperature and humidity sensor.
type AHT20 struct {
	dev   *i2c.Dev
	sleep func(time.Duration)

	lastTemperature float32
	lastHumidity    float32
}

// NewAHT20 calibrates the sensor.
func NewAHT20(bus i2c.Bus) (*AHT20, error) {
	return newAHT20(bus, time.Sleep)
}

func newAHT20(bus i2c.Bus, sleep func(time.Duration)) (*AHT20, error) {
	s := &AHT20{dev: &i2c.Dev{Bus: bus, Addr: AHT20Addr}, sleep: sleep}
	if err := s.dev.Tx(aht20CmdInit, nil); err != nil {
		return nil, fmt.Errorf("aht20: init: %v", err)
	}
	s.sleep(10 * time.Millisecond)
	return s, nil
}

// ReadClimate implements ClimateSensor.
func (s *AHT20) ReadClimate() (float32, float32) {
	if err := s.measure(); err != nil {
		glog.Warningf("aht20: %v", err)
	}
	return s.lastTemperature, s.lastHumidity
}

func (s *AHT20) measure() error {
	if err := s.dev.Tx(aht20CmdTrigger, nil); err != nil {
		return fmt.Errorf("trigger: %v", err)
	}
	s.sleep(aht20ConversionTime)
	var buf [6]byte
	if err := s.dev.Tx(nil, buf[:]); err != nil {
		return fmt.Errorf("read: %v", err)
	}
	if buf[0]&aht20StatusBusy != 0 {
		return fmt.Errorf("measurement not ready, status %#x", buf[0])
	}
	if buf[0]&aht20StatusCalibrated == 0 {
		glog.V(1).Infof("aht20: not calibrated, status %#x", buf[0])
	}
	rawHum := uint32(buf[1])<<12 | uint32(buf[2])<<4 | uint32(buf[3])>>4
	rawTemp := uint32(buf[3]&0x0f)<<16 | uint32(buf[4])<<8 | uint32(buf[5])
	s.lastHumidity = float32(rawHum) * 100 / aht20FullScale
	s.lastTemperature = float32(rawTemp)*200/aht20FullScale - 50
	return nil
}
