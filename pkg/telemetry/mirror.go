// Package telemetry mirrors presented readings to an external sink.
package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/senselink/pkg/framework"
	"github.com/robotalks/senselink/pkg/link"
	"github.com/robotalks/senselink/pkg/present"
	pb "github.com/robotalks/senselink/pkg/proto/senselink/v1"
)

// PacketWriter writes one encoded packet.
type PacketWriter interface {
	WritePacket([]byte) error
}

// Sample is a reading as presented.
type Sample struct {
	Reading  link.Reading
	State    present.LedState
	Sequence uint32
	Time     time.Time
}

// Encode converts a sample to the wire message.
func Encode(s Sample, deviceID string) ([]byte, error) {
	return proto.Marshal(&pb.Reading{
		Temperature: s.Reading.Temperature,
		Humidity:    s.Reading.Humidity,
		Luminance:   s.Reading.Luminance,
		Led:         s.State.String(),
		DeviceId:    deviceID,
		Sequence:    s.Sequence,
		TimestampMs: s.Time.UnixNano() / int64(time.Millisecond),
	})
}

// Decode parses the wire message.
func Decode(data []byte) (*pb.Reading, error) {
	var msg pb.Reading
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Mirror forwards samples to a PacketWriter from its own goroutine.
// Observe never blocks, a sample is dropped if the previous one is
// still pending.
type Mirror struct {
	Writer   PacketWriter
	DeviceID string

	sampleCh chan Sample
	seq      uint32
	dropped  uint64
	written  uint64
}

// NewMirror creates a Mirror.
func NewMirror(w PacketWriter, deviceID string) *Mirror {
	return &Mirror{
		Writer:   w,
		DeviceID: deviceID,
		sampleCh: make(chan Sample, 1),
	}
}

// Name implements fx.Named.
func (m *Mirror) Name() string {
	return "telemetry"
}

// Observe implements node.Observer.
func (m *Mirror) Observe(r link.Reading, state present.LedState) {
	m.seq++
	select {
	case m.sampleCh <- Sample{Reading: r, State: state, Sequence: m.seq, Time: time.Now()}:
	default:
		atomic.AddUint64(&m.dropped, 1)
	}
}

// Dropped returns the number of samples dropped.
func (m *Mirror) Dropped() uint64 {
	return atomic.LoadUint64(&m.dropped)
}

// Written returns the number of samples written.
func (m *Mirror) Written() uint64 {
	return atomic.LoadUint64(&m.written)
}

// Run implements fx.Runnable.
// A Runnable Writer runs along with the Mirror.
func (m *Mirror) Run(ctx context.Context) error {
	if r, ok := m.Writer.(fx.Runnable); ok {
		runCtx, cancel := context.WithCancel(ctx)
		runner := fx.NewRunnerWith(runCtx).Go(r)
		defer runner.Wait()
		defer cancel()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-m.sampleCh:
			m.write(s)
		}
	}
}

func (m *Mirror) write(s Sample) {
	data, err := Encode(s, m.DeviceID)
	if err != nil {
		glog.Errorf("telemetry encode error: %v", err)
		return
	}
	if err = m.Writer.WritePacket(data); err != nil {
		glog.Warningf("telemetry write [%d] failed: %v", s.Sequence, err)
		return
	}
	atomic.AddUint64(&m.written, 1)
	glog.V(2).Infof("telemetry [%d] %v", s.Sequence, s.Reading)
}
