package telemetry

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/senselink/pkg/telemetry/mqtt"
	"github.com/robotalks/senselink/pkg/telemetry/stream"
	"github.com/robotalks/senselink/pkg/telemetry/websocket"
)

// ErrUnsupportedURL indicates the telemetry URL scheme is unknown.
var ErrUnsupportedURL = errors.New("unsupported telemetry URL")

const appID = "senselink"

// DefaultDeviceID derives a stable device id from the machine id.
// The hostname is used when the machine id is unavailable.
func DefaultDeviceID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		if id, err = os.Hostname(); err != nil {
			return appID
		}
		return id
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// Open creates the PacketWriter for a telemetry URL.
// "-" writes a length-prefixed stream to stdout, a plain path or file://
// appends the stream to a file. mqtt://, tcp:// and ssl:// publish to
// <prefix><device-id>/reading. ws:// and wss:// send binary messages.
func Open(rawURL, deviceID string) (PacketWriter, error) {
	if rawURL == "-" || rawURL == "stdout" {
		return stream.NewWriter(struct{ io.Writer }{os.Stdout}), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid telemetry URL: %v", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "", "file":
		path := u.Path
		if path == "" {
			path = rawURL
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		return stream.NewWriter(f), nil
	case "mqtt", "tcp", "ssl":
		q, err := mqtt.NewQueueFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		return mqtt.NewWriter(q, deviceID), nil
	case "ws", "wss":
		conn, err := websocket.Dial(rawURL)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, u.Scheme)
}

// Close closes w if it holds a resource.
func Close(w PacketWriter) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
