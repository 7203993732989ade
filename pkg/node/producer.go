// Package node contains the two execution contexts of a senselink
// device: the producer sampling the sensors and the consumer presenting
// the readings. They only share the FIFO.
package node

import (
	"sync/atomic"

	"github.com/golang/glog"

	fx "github.com/robotalks/senselink/pkg/framework"
	"github.com/robotalks/senselink/pkg/hw/sensor"
	"github.com/robotalks/senselink/pkg/link"
)

// Producer samples both sensors once per cycle and pushes the packet
// into the FIFO.
type Producer struct {
	Light   sensor.LightSensor
	Climate sensor.ClimateSensor
	FIFO    *link.FIFO
	// Split sends luminance and climate as two packets.
	Split bool

	cycles uint64
}

// AddToLoop implements fx.LoopAdder.
func (p *Producer) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, p)
}

// Cycles returns the number of completed cycles.
func (p *Producer) Cycles() uint64 {
	return atomic.LoadUint64(&p.cycles)
}

// Control implements fx.Controller.
// Pushing blocks while the FIFO is full, delaying the cycle.
func (p *Producer) Control(cc fx.ControlContext) error {
	var r link.Reading
	r.Luminance = uint32(p.Light.ReadLux())
	r.Temperature, r.Humidity = p.Climate.ReadClimate()

	pkts := []link.Packet{link.Encode(r)}
	if p.Split {
		pkts = []link.Packet{
			link.EncodeLight(r.Luminance),
			link.EncodeClimate(r.Temperature, r.Humidity),
		}
	}
	for n := range pkts {
		if err := pkts[n].PushTo(cc.Context(), p.FIFO); err != nil {
			return err
		}
	}
	atomic.AddUint64(&p.cycles, 1)
	glog.V(2).Infof("producer[%d] sent %v", cc.Cycle(), r)
	return nil
}
