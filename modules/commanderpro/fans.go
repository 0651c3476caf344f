package commanderpro

import (
	"encoding/binary"
	"fmt"
)

type FanCh byte
type FanMode byte
type TempSensor byte

const (
	CMDSetFanFixedDutyCycle cmd = 0x23 // CMDWriteFanPower pwm
	CMDSetFanCustomCurve    cmd = 0x25 // CMDWriteFanCurve
	CMDSetFanMode           cmd = 0x28 // CMDWriteFanDetectionType
	CMDGetFanMode           cmd = 0x29 // CMDReadFanDetectionType

	FanCh1 FanCh = 0x00
	FanCh6 FanCh = 0x05

	FanModeAutoDisconnected FanMode = 0x00
	FanMode4Pin             FanMode = 0x02
	FanModeUnknown          FanMode = 0x03

	TempSensor1 TempSensor = 0x00
)

// Curve is a six points firmware fan curve, temperatures in °C.
type Curve struct {
	Temps [6]uint16
	RPMs  [6]uint16
}

// BalancedCurve is the firmware default curve, 750 rpm at 20 degC up to 2000 rpm at 40 degC.
var BalancedCurve = Curve{
	Temps: [6]uint16{20, 25, 29, 33, 37, 40},
	RPMs:  [6]uint16{750, 1000, 1250, 1500, 1750, 2000},
}

func fixedDutyCycleCmd(p []byte, fan FanCh, dutyCycle uint8) []byte {
	p[0] = byte(CMDSetFanFixedDutyCycle)
	p[1] = byte(fan)
	p[2] = dutyCycle
	return p
}

func customCurveCmd(p []byte, fan FanCh, tempSensor TempSensor, curve Curve) []byte {
	p[0] = byte(CMDSetFanCustomCurve)
	p[1] = byte(fan)
	p[2] = byte(tempSensor)

	for i, t := range curve.Temps {
		idx := 3 + i*2
		binary.BigEndian.PutUint16(p[idx:idx+2], t*100)
	}
	for i, rpm := range curve.RPMs {
		idx := 15 + i*2
		binary.BigEndian.PutUint16(p[idx:idx+2], rpm)
	}
	return p
}

func setFanModeCmd(p []byte, fan FanCh, fanMode FanMode) []byte {
	p[0] = byte(CMDSetFanMode)
	p[1] = 0x02
	p[2] = byte(fan)
	p[3] = byte(fanMode)
	return p
}

// SetChannelDutyCycle sets a fixed duty cycle in percent.
func (cp *CommanderPro) SetChannelDutyCycle(fan FanCh, dutyCycle uint8) error {
	fanMode, err := cp.GetFanMode(fan)
	if err != nil {
		return err
	}
	// an unknown mode clears the channel settings and turns off the fan
	if fanMode == FanModeUnknown {
		if err := cp.SetFanMode(fan, FanModeAutoDisconnected); err != nil {
			return err
		}
	}

	_, err = cp.cmd(fixedDutyCycleCmd(cp.packet(), fan, dutyCycle))
	return err
}

func (cp *CommanderPro) SetChannelCustomCurve(fan FanCh, tempSensor TempSensor, curve Curve) error {
	_, err := cp.cmd(customCurveCmd(cp.packet(), fan, tempSensor, curve))
	return err
}

func (cp *CommanderPro) SetFanMode(fan FanCh, fanMode FanMode) error {
	_, err := cp.cmd(setFanModeCmd(cp.packet(), fan, fanMode))
	return err
}

func (cp *CommanderPro) GetFanMode(fan FanCh) (fanMode FanMode, err error) {
	p := cp.packet()
	p[0] = byte(CMDGetFanMode)
	p[1] = 0x01
	p[2] = byte(fan)

	resp, err := cp.cmd(p)
	if err != nil {
		return FanModeUnknown, err
	}
	if resp[2] == byte(fan) {
		return FanMode(resp[3]), nil
	}
	return FanModeUnknown, nil
}

// Fan drives a single Commander PRO channel.
type Fan struct {
	cp *CommanderPro
	ch FanCh
}

// OpenFan opens the device and returns the fan at channel ch, 1 to 6.
func OpenFan(ch int) (*Fan, error) {
	if ch < 1 || ch > int(FanCh6)+1 {
		return nil, fmt.Errorf("commanderpro fan channel must be between 1 and 6, got %d", ch)
	}
	cp, err := Open()
	if err != nil {
		return nil, err
	}
	return &Fan{cp: cp, ch: FanCh(ch - 1)}, nil
}

func (f *Fan) Name() string {
	return fmt.Sprintf("commanderpro/fan%d", f.ch+1)
}

// SetDuty converts the 0-255 pwm value to the percent used by the device.
func (f *Fan) SetDuty(pwm uint8) error {
	return f.cp.SetChannelDutyCycle(f.ch, pwmToPercent(pwm))
}

// EnableAuto restores the firmware balanced curve on the channel.
func (f *Fan) EnableAuto() error {
	if err := f.cp.SetFanMode(f.ch, FanMode4Pin); err != nil {
		return err
	}
	return f.cp.SetChannelCustomCurve(f.ch, TempSensor1, BalancedCurve)
}

func (f *Fan) Close() error {
	return f.cp.Close()
}

func pwmToPercent(pwm uint8) uint8 {
	return uint8(uint16(pwm) * 100 / 255)
}
