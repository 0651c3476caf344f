package main

// TempExtractor provides the CPU temperature the fan curve is evaluated against.
type TempExtractor interface {
	Name() string

	// ReadTemp returns the temperature in millidegrees Celsius.
	ReadTemp() (milliC int, err error)
}

// FanController drives the platform fan.
type FanController interface {
	Name() string

	// SetDuty writes the duty scaled to 0-255.
	SetDuty(pwm uint8) error

	// EnableAuto hands fan control back to the firmware.
	EnableAuto() error

	Close() error
}
