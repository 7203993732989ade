package framework

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the idle time between two cycles.
const DefaultInterval = 500 * time.Millisecond

// Loop runs controllers cycle by cycle in a single goroutine.
// After each cycle, the loop idles for Interval before the next one,
// unless Continuous is set or TriggerNext is called.
type Loop struct {
	Interval   time.Duration
	Continuous bool

	name        string
	controllers [PriorityLevels][]Controller
	runners     []Runnable
	cycle       uint64

	wakeUpCh chan struct{}
}

type loopIteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	cycle         uint64
	priorityLevel int
}

// NewLoop creates a Loop.
func NewLoop(name string) *Loop {
	return &Loop{
		name:     name,
		Interval: DefaultInterval,
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions which run along with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	var runner *Runner
	if len(l.runners) > 0 {
		runCtx, cancel := context.WithCancel(ctx)
		runner = NewRunnerWith(runCtx).Go(l.runners...)
		defer runner.Wait()
		defer cancel()
	}

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	glog.V(1).Infof("loop %s: started, interval=%v continuous=%v", l.name, interval, l.Continuous)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.runIteration(ctx)
		if l.Continuous {
			continue
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		case <-l.wakeUpCh:
			timer.Stop()
		}
	}
}

// Name implements Named.
func (l *Loop) Name() string {
	return l.name
}

// Cycles returns the number of started cycles.
// It must only be called from controllers of the loop.
func (l *Loop) Cycles() uint64 {
	return l.cycle
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (l *Loop) runIteration(ctx context.Context) {
	l.cycle++
	iter := &loopIteration{Loop: l, ctx: ctx, time: time.Now(), cycle: l.cycle}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				if ctx.Err() != nil {
					return
				}
				glog.Errorf("loop %s: controller error: %v", l.name, err)
			}
		}
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) Cycle() uint64 {
	return t.cycle
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}
