// Package hwmon reads sensors and writes actuator attributes exposed by the
// kernel under /sys/class/hwmon.
package hwmon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const DefaultRoot = "/sys/class/hwmon"

// PwmEnableAuto hands the pwm channel back to the firmware.
const PwmEnableAuto = "2"

var ErrNotFound = errors.New("hwmon not found")

// HwMon is a single hardware monitor, eg.: /sys/class/hwmon/hwmon3.
type HwMon struct {
	path string
}

// Open returns the hwmon at path.
func Open(path string) *HwMon {
	return &HwMon{path: path}
}

// All returns every hwmon under root, sorted by path.
func All(root string) ([]*HwMon, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(root, "hwmon*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	all := make([]*HwMon, 0, len(matches))
	for _, path := range matches {
		all = append(all, Open(path))
	}
	return all, nil
}

// Find returns the last hwmon, in path order, whose name is one of names.
func Find(all []*HwMon, names ...string) (*HwMon, error) {
	var found *HwMon
	for _, h := range all {
		name, err := h.Name()
		if err != nil {
			continue
		}
		for _, n := range names {
			if name == n {
				found = h
				break
			}
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(names, ", "))
	}
	return found, nil
}

func (h *HwMon) Path() string {
	return h.path
}

// Name returns the driver name, eg.: coretemp.
func (h *HwMon) Name() (string, error) {
	return h.ReadFile("name")
}

// ReadFile returns the trimmed content of the attribute.
func (h *HwMon) ReadFile(attr string) (string, error) {
	b, err := os.ReadFile(filepath.Join(h.path, attr))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// WriteFile writes value to the attribute.
func (h *HwMon) WriteFile(attr, value string) error {
	f, err := os.OpenFile(filepath.Join(h.path, attr), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err = f.WriteString(value); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Temp returns temp<ch>_input in millidegrees Celsius.
func (h *HwMon) Temp(ch int) (int, error) {
	s, err := h.ReadFile(fmt.Sprintf("temp%d_input", ch))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
