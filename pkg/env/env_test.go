package env

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/senselink/pkg/node"
	"github.com/robotalks/senselink/pkg/telemetry"
	"github.com/robotalks/senselink/pkg/telemetry/stream"
)

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		"SENSELINK_POLICY":      "best-effort",
		"SENSELINK_INTERVAL":    "20ms",
		"SENSELINK_FIFO_DEPTH":  "4",
		"SENSELINK_SPLIT":       "true",
		"SENSELINK_HW":          "periph",
		"SENSELINK_I2C":         "1",
		"SENSELINK_DISPLAY_I2C": "0",
		"SENSELINK_TELEMETRY":   "-",
		"SENSELINK_DEVICE_ID":   "bench",
	}
	c := NewConfig()
	applyEnv(c, func(key string) string { return vars[key] })
	require.Equal(t, "best-effort", c.Policy)
	require.Equal(t, 20*time.Millisecond, c.Interval)
	require.Equal(t, 4, c.FIFODepth)
	require.True(t, c.Split)
	require.Equal(t, HardwarePeriph, c.Hardware)
	require.Equal(t, "1", c.I2C)
	require.Equal(t, "0", c.DisplayI2C)
	require.Equal(t, "-", c.Telemetry)
	require.Equal(t, "bench", c.DeviceID)

	c = NewConfig()
	applyEnv(c, func(key string) string {
		if key == "SENSELINK_INTERVAL" {
			return "soon"
		}
		return ""
	})
	require.Equal(t, Default().Interval, c.Interval)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(*Config)
		valid bool
	}{
		{"default", func(*Config) {}, true},
		{"best-effort", func(c *Config) { c.Policy = "best-effort" }, true},
		{"bad policy", func(c *Config) { c.Policy = "lazy" }, false},
		{"bad hardware", func(c *Config) { c.Hardware = "fpga" }, false},
		{"bad depth", func(c *Config) { c.FIFODepth = 0 }, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.setup(c)
			if tc.valid {
				require.NoError(t, c.Validate())
			} else {
				require.Error(t, c.Validate())
			}
		})
	}
}

func TestEnvRunsSimulated(t *testing.T) {
	dir, err := ioutil.TempDir("", "senselink")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "telemetry.bin")

	for _, policy := range []string{string(node.PolicyBlocking), string(node.PolicyBestEffort)} {
		t.Run(policy, func(t *testing.T) {
			c := NewConfig()
			c.Policy = policy
			c.Interval = 2 * time.Millisecond
			c.Telemetry = path
			c.DeviceID = "bench"
			var out bytes.Buffer
			e, err := c.NewEnvWith(NewSimHardware(&out))
			require.NoError(t, err)
			require.NotNil(t, e.Mirror)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- e.Run(ctx) }()
			require.Eventually(t, func() bool {
				return e.System.Consumer.Stats().Packets >= 3 && e.Mirror.Written() >= 1
			}, 5*time.Second, 5*time.Millisecond)
			cancel()
			require.NoError(t, <-done)
			require.NoError(t, e.Close())
			require.Zero(t, e.System.Consumer.Stats().Discarded)
		})
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	pkt, err := stream.NewReader(f).ReadPacket()
	require.NoError(t, err)
	msg, err := telemetry.Decode(pkt)
	require.NoError(t, err)
	require.Equal(t, "bench", msg.DeviceId)
}
