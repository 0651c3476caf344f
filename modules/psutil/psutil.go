// Package psutil reads the cpu temperature through gopsutil.
package psutil

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// DefaultKeys are tried in order when no key is configured.
var DefaultKeys = []string{"coretemp_package_id_0", "k10temp_tctl", "coretemp", "k10temp"}

// Sensor returns the first temperature whose sensor key starts with one of Keys.
type Sensor struct {
	Keys []string

	// temperatures is replaced in tests.
	temperatures func() ([]sensors.TemperatureStat, error)
}

func New(key string) *Sensor {
	keys := DefaultKeys
	if key != "" {
		keys = []string{key}
	}
	return &Sensor{Keys: keys, temperatures: sensors.SensorsTemperatures}
}

func (s *Sensor) Name() string {
	return "psutil/" + strings.Join(s.Keys, "|")
}

func (s *Sensor) ReadTemp() (int, error) {
	stats, err := s.temperatures()
	// gopsutil returns partial results along with warnings
	if len(stats) == 0 {
		if err == nil {
			err = errors.New("no temperature sensors found")
		}
		return 0, err
	}

	stat, ok := match(stats, s.Keys)
	if !ok {
		return 0, fmt.Errorf("no temperature sensor matching %s", strings.Join(s.Keys, ", "))
	}
	return int(math.Round(stat.Temperature * 1000)), nil
}

func match(stats []sensors.TemperatureStat, keys []string) (sensors.TemperatureStat, bool) {
	for _, key := range keys {
		for _, stat := range stats {
			if strings.HasPrefix(stat.SensorKey, key) {
				return stat, true
			}
		}
	}
	return sensors.TemperatureStat{}, false
}
