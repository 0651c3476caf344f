package hwmon

import (
	"fmt"
	"strconv"
)

// Fan drives pwm<ch> of a platform hwmon.
type Fan struct {
	hwmon *HwMon
	ch    int
}

func NewFan(h *HwMon, ch int) *Fan {
	return &Fan{hwmon: h, ch: ch}
}

func (f *Fan) Name() string {
	name, _ := f.hwmon.Name()
	return fmt.Sprintf("%s/pwm%d", name, f.ch)
}

func (f *Fan) SetDuty(pwm uint8) error {
	return f.hwmon.WriteFile(fmt.Sprintf("pwm%d", f.ch), strconv.Itoa(int(pwm)))
}

func (f *Fan) EnableAuto() error {
	return f.hwmon.WriteFile(fmt.Sprintf("pwm%d_enable", f.ch), PwmEnableAuto)
}

func (f *Fan) Close() error {
	return nil
}

// Sensor reads temp<ch>_input of a cpu hwmon.
type Sensor struct {
	hwmon *HwMon
	ch    int
}

func NewSensor(h *HwMon, ch int) *Sensor {
	return &Sensor{hwmon: h, ch: ch}
}

func (s *Sensor) Name() string {
	name, _ := s.hwmon.Name()
	return fmt.Sprintf("%s/temp%d", name, s.ch)
}

func (s *Sensor) ReadTemp() (int, error) {
	return s.hwmon.Temp(s.ch)
}
