package node

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/senselink/pkg/framework"
	"github.com/robotalks/senselink/pkg/hw/sensor"
	"github.com/robotalks/senselink/pkg/link"
	"github.com/robotalks/senselink/pkg/present"
)

// Policy selects how the consumer receives words.
type Policy string

// Receive policies.
const (
	// PolicyBlocking waits for each packet, cycles are paced by the producer.
	PolicyBlocking Policy = "blocking"
	// PolicyBestEffort never waits, cycles are paced by the loop interval
	// and luminance comes from a local sensor.
	PolicyBestEffort Policy = "best-effort"
)

// ErrUnknownPolicy indicates an unsupported policy name.
var ErrUnknownPolicy = errors.New("unknown policy")

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyBlocking, PolicyBestEffort:
		return p, nil
	}
	return "", ErrUnknownPolicy
}

// Observer receives a copy of each updated reading.
// It is called from the consumer loop and must not block.
type Observer interface {
	Observe(r link.Reading, state present.LedState)
}

// ConsumerStats are the counters of a consumer.
type ConsumerStats struct {
	Cycles    uint64
	Packets   uint64
	Discarded uint64
}

// Consumer receives packets and presents the last known reading once
// per cycle.
type Consumer struct {
	Policy    Policy
	FIFO      *link.FIFO
	Presenter *present.Presenter
	// Light is the local light sensor used by PolicyBestEffort.
	Light    sensor.LightSensor
	Observer Observer
	// Tags are the packet tags the producer sends, nil for full readings
	// only. Any other word where a tag is expected is discarded.
	Tags []link.Tag

	parser link.Parser
	last   link.Reading

	lock     sync.RWMutex
	stats    ConsumerStats
	snapshot link.Reading
	state    present.LedState
}

// PacketTags returns the tags a producer sends.
func PacketTags(split bool) []link.Tag {
	if split {
		return []link.Tag{link.TagLight, link.TagClimate}
	}
	return []link.Tag{link.TagReading}
}

// AddToLoop implements fx.LoopAdder.
func (c *Consumer) AddToLoop(l *fx.Loop) {
	if c.Policy != PolicyBestEffort {
		l.Continuous = true
	}
	l.AddController(fx.PrLvControl, c)
	if r, ok := c.Observer.(fx.Runnable); ok {
		l.AddRunnable(r)
	}
}

// Stats returns the counters.
func (c *Consumer) Stats() ConsumerStats {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.stats
}

// Last returns the reading and LED state presented last.
func (c *Consumer) Last() (link.Reading, present.LedState) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.snapshot, c.state
}

// Control implements fx.Controller.
func (c *Consumer) Control(cc fx.ControlContext) error {
	var (
		stats ConsumerStats
		err   error
	)
	if c.parser.Tags = c.Tags; c.Tags == nil {
		c.parser.Tags = PacketTags(false)
	}
	if c.Policy == PolicyBestEffort {
		stats = c.drain()
	} else {
		stats, err = c.receive(cc.Context())
		if err != nil {
			return err
		}
	}

	presenter := c.Presenter
	if presenter == nil {
		presenter = &present.Presenter{}
	}
	state := presenter.Present(c.last)
	if stats.Packets > 0 && c.Observer != nil {
		c.Observer.Observe(c.last, state)
	}
	glog.V(2).Infof("consumer[%d] %v %v", cc.Cycle(), c.last, state)

	c.lock.Lock()
	c.stats.Cycles++
	c.stats.Packets += stats.Packets
	c.stats.Discarded += stats.Discarded
	c.snapshot, c.state = c.last, state
	c.lock.Unlock()
	return nil
}

// receive pops one word. A tag is followed by popping the rest of its
// packet, any other word is discarded.
func (c *Consumer) receive(ctx context.Context) (ConsumerStats, error) {
	var stats ConsumerStats
	for {
		w, err := c.FIFO.Pop(ctx)
		if err != nil {
			return stats, err
		}
		pr := c.parser.Parse(w)
		switch {
		case pr.Discarded():
			glog.V(1).Info(pr.Err)
			stats.Discarded++
			return stats, nil
		case pr.Packet != nil:
			c.last.Merge(pr.Packet.Reading, pr.Packet.Fields())
			stats.Packets++
			return stats, nil
		}
	}
}

// drain applies every word already queued without blocking. A partial
// packet stays in the parser until the next cycle.
func (c *Consumer) drain() (stats ConsumerStats) {
	var lux uint32
	if c.Light != nil {
		lux = uint32(c.Light.ReadLux())
	}
	for n := c.FIFO.Cap(); n > 0; n-- {
		w, ok := c.FIFO.TryPop()
		if !ok {
			break
		}
		pr := c.parser.Parse(w)
		switch {
		case pr.Discarded():
			glog.V(1).Info(pr.Err)
			stats.Discarded++
		case pr.Packet != nil:
			c.last.Merge(pr.Packet.Reading, pr.Packet.Fields())
			stats.Packets++
		}
	}
	if c.Light != nil {
		c.last.Luminance = lux
	}
	return
}
