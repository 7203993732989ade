package sensor

import (
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/i2c"
)

// BH1750 I2C addresses, selected by the ADDR pin.
const (
	BH1750AddrLow  uint16 = 0x23
	BH1750AddrHigh uint16 = 0x5c
)

const (
	bh1750PowerOn        byte = 0x01
	bh1750ContinuousHRes byte = 0x10
)

// BH1750 is the ambient light sensor in continuous high resolution mode.
type BH1750 struct {
	dev  *i2c.Dev
	last uint16
}

// NewBH1750 powers on the sensor and starts continuous measurement.
func NewBH1750(bus i2c.Bus, addr uint16) (*BH1750, error) {
	s := &BH1750{dev: &i2c.Dev{Bus: bus, Addr: addr}}
	for _, cmd := range []byte{bh1750PowerOn, bh1750ContinuousHRes} {
		if err := s.dev.Tx([]byte{cmd}, nil); err != nil {
			return nil, fmt.Errorf("bh1750 %#x: command %#x: %v", addr, cmd, err)
		}
	}
	return s, nil
}

// ReadLux implements LightSensor.
func (s *BH1750) ReadLux() uint16 {
	var buf [2]byte
	if err := s.dev.Tx(nil, buf[:]); err != nil {
		glog.Warningf("bh1750 %#x: read error: %v", s.dev.Addr, err)
		return s.last
	}
	// 1 count = 1/1.2 lux in high resolution mode.
	raw := uint32(buf[0])<<8 | uint32(buf[1])
	s.last = uint16(raw * 10 / 12)
	return s.last
}
