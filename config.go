package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oblq/hwfan/modules/hwmon"
)

const defaultConfigPath = "/etc/hwfan.yaml"

// platform drivers
const (
	driverHwmon        = "hwmon"
	driverCommanderPro = "commanderpro"
	driverIPMI         = "ipmi"
)

// cpu temperature sources
const (
	sourceHwmon  = "hwmon"
	sourceCli    = "cli"
	sourcePsutil = "psutil"
)

type Config struct {
	// Interval is the time between two controller ticks.
	Interval time.Duration `yaml:"interval"`

	// HwmonRoot is where hardware monitors are enumerated from.
	HwmonRoot string `yaml:"hwmon_root"`

	Platform PlatformConfig `yaml:"platform"`
	CPU      CPUConfig      `yaml:"cpu"`
	Log      LogConfig      `yaml:"log"`
}

// PlatformConfig selects the fan backend.
type PlatformConfig struct {
	// Driver is one of hwmon, commanderpro or ipmi.
	Driver string `yaml:"driver"`

	// Names are the hwmon names accepted as platform monitor.
	Names []string `yaml:"names"`

	// Channel is the pwm channel (hwmon) or fan channel (commanderpro).
	Channel int `yaml:"channel"`

	// IPMICmd is the ipmitool preamble command,
	// could run locally or on remote machines, eg.: `ipmitool -I lanplus -H host -U user -P pass`.
	IPMICmd  string `yaml:"ipmi_cmd"`
	IPMIZone uint8  `yaml:"ipmi_zone"`
}

// CPUConfig selects the temperature source.
type CPUConfig struct {
	// Source is one of hwmon, cli or psutil.
	Source string `yaml:"source"`

	// Names are the hwmon names accepted as cpu monitor.
	Names []string `yaml:"names"`

	// Channel is the hwmon temp channel, temp<channel>_input.
	Channel int `yaml:"channel"`

	// Cmd prints the temperature in °C, used by the cli source.
	Cmd string `yaml:"cmd"`

	// SensorKey is the gopsutil sensor key prefix, used by the psutil source.
	SensorKey string `yaml:"sensor_key"`
}

type LogConfig struct {
	Level string `yaml:"level"`

	// File enables a rotated log file in addition to stdout/stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the yaml file at path.
// A missing file is not an error when path is the default one.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	if cfg.Interval < 0 {
		return Config{}, errors.New("interval must be > 0")
	}
	cfg.applyDefaults()

	switch cfg.Platform.Driver {
	case driverHwmon, driverCommanderPro:
	case driverIPMI:
		if cfg.Platform.IPMICmd == "" {
			return Config{}, errors.New("platform.ipmi_cmd is required when platform.driver is 'ipmi'")
		}
	default:
		return Config{}, fmt.Errorf("platform.driver '%s' is not supported", cfg.Platform.Driver)
	}

	switch cfg.CPU.Source {
	case sourceHwmon, sourcePsutil:
	case sourceCli:
		if cfg.CPU.Cmd == "" {
			return Config{}, errors.New("cpu.cmd is required when cpu.source is 'cli'")
		}
	default:
		return Config{}, fmt.Errorf("cpu.source '%s' is not supported", cfg.CPU.Source)
	}

	if cfg.Platform.Channel < 1 {
		return Config{}, errors.New("platform.channel must be >= 1")
	}
	if cfg.CPU.Channel < 1 {
		return Config{}, errors.New("cpu.channel must be >= 1")
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Interval == 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	if cfg.HwmonRoot == "" {
		cfg.HwmonRoot = hwmon.DefaultRoot
	}

	if cfg.Platform.Driver == "" {
		cfg.Platform.Driver = driverHwmon
	}
	if len(cfg.Platform.Names) == 0 {
		cfg.Platform.Names = []string{"system76"}
	}
	if cfg.Platform.Channel == 0 {
		cfg.Platform.Channel = 1
	}

	if cfg.CPU.Source == "" {
		cfg.CPU.Source = sourceHwmon
	}
	if len(cfg.CPU.Names) == 0 {
		cfg.CPU.Names = []string{"coretemp", "k10temp"}
	}
	if cfg.CPU.Channel == 0 {
		cfg.CPU.Channel = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 10
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 28
	}
}
