package node

import (
	"context"
	"time"

	fx "github.com/robotalks/senselink/pkg/framework"
)

// System runs the producer and the consumer, each in its own loop.
type System struct {
	Producer     *Producer
	Consumer     *Consumer
	ProducerLoop *fx.Loop
	ConsumerLoop *fx.Loop
}

// NewSystem creates a System, both loops idle for interval between cycles.
func NewSystem(p *Producer, c *Consumer, interval time.Duration) *System {
	s := &System{
		Producer:     p,
		Consumer:     c,
		ProducerLoop: fx.NewLoop("producer"),
		ConsumerLoop: fx.NewLoop("consumer"),
	}
	if interval > 0 {
		s.ProducerLoop.Interval = interval
		s.ConsumerLoop.Interval = interval
	}
	s.ProducerLoop.Add(p)
	s.ConsumerLoop.Add(c)
	return s
}

// Run implements fx.Runnable.
func (s *System) Run(ctx context.Context) error {
	return fx.NewRunnerWith(ctx).Go(s.ProducerLoop, s.ConsumerLoop).Wait()
}
