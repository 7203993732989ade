// Package senselink defines the telemetry messages, see reading.proto.
package senselink

import (
	"github.com/golang/protobuf/proto"
)

// Reading is one presented reading mirrored to telemetry.
type Reading struct {
	Temperature float32 `protobuf:"fixed32,1,opt,name=temperature,proto3" json:"temperature,omitempty"`
	Humidity    float32 `protobuf:"fixed32,2,opt,name=humidity,proto3" json:"humidity,omitempty"`
	Luminance   uint32  `protobuf:"varint,3,opt,name=luminance,proto3" json:"luminance,omitempty"`
	Led         string  `protobuf:"bytes,4,opt,name=led,proto3" json:"led,omitempty"`
	DeviceId    string  `protobuf:"bytes,5,opt,name=device_id,json=deviceId,proto3" json:"device_id,omitempty"`
	Sequence    uint32  `protobuf:"varint,6,opt,name=sequence,proto3" json:"sequence,omitempty"`
	TimestampMs int64   `protobuf:"varint,7,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
}

// Reset implements proto.Message.
func (m *Reading) Reset() { *m = Reading{} }

// String implements proto.Message.
func (m *Reading) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Reading) ProtoMessage() {}

func init() {
	proto.RegisterType((*Reading)(nil), "senselink.v1.Reading")
}
