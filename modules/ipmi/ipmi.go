package ipmi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oblq/hwfan/internal/exec"
)

// FanMode is the ipmi fan mode.
type FanMode string

const (
	FanModeStandard FanMode = "00"
	FanModeFull     FanMode = "01"
	FanModeOptimal  FanMode = "02"
	FanModeHeavyIO  FanMode = "04"
)

// IPMI is an ipmitool interface to handle a fan zone duty-cycle.
// `sudo watch ipmitool sensor` to get the current settings.
type IPMI struct {
	// CMD is the ipmitool preamble command,
	// could run locally or on remote machines.
	CMD string

	// Zone is the ipmi fan zone, cpu_zone: 0x00, io_zone: 0x01.
	Zone uint8

	// run is replaced in tests.
	run func(cmdString string) (string, error)
}

// Open switches the BMC to full mode, so that the zone duty-cycle
// set from here is not overridden.
func Open(cmd string, zone uint8) (*IPMI, error) {
	ipmi := &IPMI{CMD: cmd, Zone: zone, run: exec.Command}
	if err := ipmi.takeControl(); err != nil {
		return nil, err
	}
	return ipmi, nil
}

func (ipmi *IPMI) takeControl() error {
	mode, err := ipmi.GetFanMode()
	if err != nil {
		return err
	}
	if mode != FanModeFull {
		return ipmi.SetFanMode(FanModeFull)
	}
	return nil
}

// GetFanMode return the fan mode currently used by ipmi.
func (ipmi *IPMI) GetFanMode() (FanMode, error) {
	out, err := ipmi.run(fmt.Sprintf("%s raw 0x30 0x45 0x00", ipmi.CMD))
	if err != nil {
		return "", fmt.Errorf("error getting fan mode: %v", err)
	}
	return FanMode(strings.TrimSpace(out)), nil
}

// SetFanMode set ipmi fan mode.
func (ipmi *IPMI) SetFanMode(mode FanMode) error {
	if _, err := ipmi.run(fmt.Sprintf("%s raw 0x30 0x45 0x01 %s", ipmi.CMD, mode)); err != nil {
		return fmt.Errorf("error setting fan mode to %s: %v", mode, err)
	}
	return nil
}

// GetZoneDutyCycle return the zone duty-cycle in percent.
func (ipmi *IPMI) GetZoneDutyCycle() (uint8, error) {
	out, err := ipmi.run(fmt.Sprintf("%s raw 0x30 0x70 0x66 0x00 %#02x", ipmi.CMD, ipmi.Zone))
	if err != nil {
		return 0, fmt.Errorf("error getting duty cycle for zone '%d': %v", ipmi.Zone, err)
	}

	dc, err := strconv.ParseUint(strings.TrimSpace(out), 16, 8)
	return uint8(dc), err
}

// SetZoneDutyCycle set the zone duty-cycle in percent.
func (ipmi *IPMI) SetZoneDutyCycle(dc uint8) error {
	cmdString := fmt.Sprintf("%s raw 0x30 0x70 0x66 0x01 %#02x %#02x", ipmi.CMD, ipmi.Zone, dc)
	if _, err := ipmi.run(cmdString); err != nil {
		return fmt.Errorf("error setting duty cycle for zone '%d' to %d%%: %v", ipmi.Zone, dc, err)
	}
	return nil
}

// fanController interface implementation ------------------------------------------------------------------------------

func (ipmi *IPMI) Name() string {
	return fmt.Sprintf("ipmi/zone%d", ipmi.Zone)
}

// SetDuty converts the 0-255 pwm value to the percent used by the BMC.
func (ipmi *IPMI) SetDuty(pwm uint8) error {
	return ipmi.SetZoneDutyCycle(uint8(uint16(pwm) * 100 / 255))
}

// EnableAuto restores the BMC standard mode.
func (ipmi *IPMI) EnableAuto() error {
	return ipmi.SetFanMode(FanModeStandard)
}

func (ipmi *IPMI) Close() error {
	return nil
}
