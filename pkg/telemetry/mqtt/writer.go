package mqtt

import (
	"context"
	"time"
)

// ReadingTopic is the topic readings of a device are published to.
func ReadingTopic(deviceID string) string {
	return deviceID + "/reading"
}

// ReadingPattern matches the reading topics of all devices.
const ReadingPattern = "+/reading"

// DeviceOf extracts the device id from a reading topic.
func DeviceOf(topic string) string {
	if n := len(topic) - len("/reading"); n > 0 {
		return topic[:n]
	}
	return ""
}

// DefaultPublishTimeout bounds the wait for a publish acknowledgement.
const DefaultPublishTimeout = 2 * time.Second

// Writer publishes each packet to a fixed topic.
type Writer struct {
	Queue   *Queue
	Topic   string
	Timeout time.Duration
}

// NewWriter creates a Writer publishing readings of deviceID.
func NewWriter(q *Queue, deviceID string) *Writer {
	return &Writer{Queue: q, Topic: ReadingTopic(deviceID), Timeout: DefaultPublishTimeout}
}

// WritePacket implements PacketWriter.
func (w *Writer) WritePacket(pkt []byte) error {
	token := w.Queue.Pub(w.Topic, pkt)
	if w.Timeout > 0 && !token.WaitTimeout(w.Timeout) {
		return context.DeadlineExceeded
	}
	token.Wait()
	return token.Error()
}

// Run implements Runnable, it keeps the connection until ctx is done.
// paho reconnects automatically, so a failed first connect is not fatal.
func (w *Writer) Run(ctx context.Context) error {
	w.Queue.Connect()
	defer w.Queue.Close()
	<-ctx.Done()
	return ctx.Err()
}
