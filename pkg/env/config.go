// Package env assembles a senselink device from configuration.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/senselink/pkg/hw/led"
	"github.com/robotalks/senselink/pkg/link"
	"github.com/robotalks/senselink/pkg/node"
)

// Hardware backends.
const (
	HardwareSim    = "sim"
	HardwarePeriph = "periph"
)

// Config provides the options to setup a device.
type Config struct {
	Policy    string
	Interval  time.Duration
	FIFODepth int
	// Split sends luminance and climate in separate packets.
	Split bool

	Hardware string
	// I2C is the bus of the producer sensors, empty for the first bus.
	I2C string
	// DisplayI2C is the bus of the display and the consumer light sensor.
	DisplayI2C string
	LEDPins    [3]string

	// Telemetry is the URL readings are mirrored to, empty to disable.
	Telemetry string
	DeviceID  string
}

var defaultConfig = Config{
	Policy:    string(node.PolicyBlocking),
	Interval:  500 * time.Millisecond,
	FIFODepth: link.DefaultDepth,
	Hardware:  HardwareSim,
	LEDPins:   [3]string{led.DefaultRedPin, led.DefaultGreenPin, led.DefaultBluePin},
}

func init() {
	applyEnv(&defaultConfig, os.Getenv)
}

func applyEnv(c *Config, getenv func(string) string) {
	if val := getenv("SENSELINK_POLICY"); val != "" {
		c.Policy = val
	}
	if val := getenv("SENSELINK_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Interval = d
		}
	}
	if val := getenv("SENSELINK_FIFO_DEPTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.FIFODepth = n
		}
	}
	if val := getenv("SENSELINK_SPLIT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Split = b
		}
	}
	if val := getenv("SENSELINK_HW"); val != "" {
		c.Hardware = val
	}
	if val := getenv("SENSELINK_I2C"); val != "" {
		c.I2C = val
	}
	if val := getenv("SENSELINK_DISPLAY_I2C"); val != "" {
		c.DisplayI2C = val
	}
	if val := getenv("SENSELINK_TELEMETRY"); val != "" {
		c.Telemetry = val
	}
	if val := getenv("SENSELINK_DEVICE_ID"); val != "" {
		c.DeviceID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Policy, "policy", defaultConfig.Policy, "Consumer receive policy: blocking or best-effort.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Cycle cadence.")
	flag.IntVar(&defaultConfig.FIFODepth, "fifo-depth", defaultConfig.FIFODepth, "Depth of the inter-core FIFO in words.")
	flag.BoolVar(&defaultConfig.Split, "split", defaultConfig.Split, "Send luminance and climate as separate packets.")
	flag.StringVar(&defaultConfig.Hardware, "hw", defaultConfig.Hardware, "Hardware backend: sim or periph.")
	flag.StringVar(&defaultConfig.I2C, "i2c", defaultConfig.I2C, "I2C bus of the sensors.")
	flag.StringVar(&defaultConfig.DisplayI2C, "display-i2c", defaultConfig.DisplayI2C, "I2C bus of the display.")
	flag.StringVar(&defaultConfig.Telemetry, "telemetry", defaultConfig.Telemetry, "Telemetry URL: -, file path, mqtt://, ws://.")
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device ID, defaults to the machine ID.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the options.
func (c *Config) Validate() error {
	if _, err := node.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%v %q", err, c.Policy)
	}
	switch c.Hardware {
	case HardwareSim, HardwarePeriph:
	default:
		return fmt.Errorf("unknown hardware %q", c.Hardware)
	}
	if c.FIFODepth < 1 {
		return fmt.Errorf("invalid FIFO depth %d", c.FIFODepth)
	}
	return nil
}

// MustNewEnv creates an Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}
