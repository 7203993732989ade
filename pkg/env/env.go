package env

import (
	"context"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/senselink/pkg/link"
	"github.com/robotalks/senselink/pkg/node"
	"github.com/robotalks/senselink/pkg/present"
	"github.com/robotalks/senselink/pkg/telemetry"
)

// Env is an assembled device ready to run.
type Env struct {
	Config   Config
	Hardware *Hardware
	FIFO     *link.FIFO
	System   *node.System
	// Mirror is nil when telemetry is disabled.
	Mirror *telemetry.Mirror

	writer telemetry.PacketWriter
}

// NewEnv creates an Env using current config.
func (c *Config) NewEnv() (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	policy, _ := node.ParsePolicy(c.Policy)

	var (
		hw  *Hardware
		err error
	)
	if c.Hardware == HardwarePeriph {
		hw, err = c.NewPeriphHardware(policy == node.PolicyBestEffort)
		if err != nil {
			return nil, err
		}
	} else {
		hw = NewSimHardware(os.Stderr)
	}
	e, err := c.NewEnvWith(hw)
	if err != nil {
		hw.Close()
		return nil, err
	}
	return e, nil
}

// NewEnvWith creates an Env on the given hardware.
func (c *Config) NewEnvWith(hw *Hardware) (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	policy, _ := node.ParsePolicy(c.Policy)
	e := &Env{Config: *c, Hardware: hw, FIFO: link.NewFIFO(c.FIFODepth)}

	consumer := &node.Consumer{
		Policy:    policy,
		FIFO:      e.FIFO,
		Presenter: &present.Presenter{Display: hw.Display, LED: hw.LED},
		Tags:      node.PacketTags(c.Split),
	}
	if policy == node.PolicyBestEffort {
		consumer.Light = hw.LocalLight
	}
	if c.Telemetry != "" {
		deviceID := c.DeviceID
		if deviceID == "" {
			deviceID = telemetry.DefaultDeviceID()
		}
		w, err := telemetry.Open(c.Telemetry, deviceID)
		if err != nil {
			return nil, err
		}
		e.writer = w
		e.Mirror = telemetry.NewMirror(w, deviceID)
		consumer.Observer = e.Mirror
		glog.Infof("telemetry %s as %s", c.Telemetry, deviceID)
	}
	producer := &node.Producer{
		Light:   hw.Light,
		Climate: hw.Climate,
		FIFO:    e.FIFO,
		Split:   c.Split,
	}
	e.System = node.NewSystem(producer, consumer, c.Interval)
	return e, nil
}

// Run implements fx.Runnable.
func (e *Env) Run(ctx context.Context) error {
	glog.Infof("senselink: policy=%s interval=%v fifo=%d split=%v hw=%s",
		e.Config.Policy, e.Config.Interval, e.FIFO.Cap(), e.Config.Split, e.Config.Hardware)
	return e.System.Run(ctx)
}

// Close releases telemetry and hardware.
func (e *Env) Close() error {
	if e.writer != nil {
		if err := telemetry.Close(e.writer); err != nil {
			glog.Warningf("close telemetry: %v", err)
		}
	}
	if e.Hardware != nil {
		return e.Hardware.Close()
	}
	return nil
}
