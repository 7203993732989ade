// Package sensor provides the light and climate sensors sampled by the
// sensor link.
//
// Reads are blocking and never fail from the caller's point of view:
// bus errors are logged and the last good value is returned.
package sensor

// LightSensor measures illuminance.
type LightSensor interface {
	// ReadLux returns illuminance in lux.
	ReadLux() uint16
}

// ClimateSensor measures temperature and relative humidity in one
// transaction.
type ClimateSensor interface {
	// ReadClimate returns temperature in Celsius and humidity in percent.
	ReadClimate() (temperature, humidity float32)
}
