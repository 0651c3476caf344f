package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/oblq/hwfan/modules/cli"
	"github.com/oblq/hwfan/modules/commanderpro"
	"github.com/oblq/hwfan/modules/hwmon"
	"github.com/oblq/hwfan/modules/ipmi"
	"github.com/oblq/hwfan/modules/psutil"
)

var (
	ErrPlatformNotFound = errors.New("platform hwmon not found")
	ErrCPUNotFound      = errors.New("cpu hwmon not found")
)

// discover enumerates the hardware monitors under root, logging every name.
func discover(root string, log *zap.Logger) ([]*hwmon.HwMon, error) {
	all, err := hwmon.All(root)
	if err != nil {
		return nil, err
	}
	for _, h := range all {
		if name, err := h.Name(); err == nil {
			log.Info("hwmon: "+name, zap.String("path", h.Path()))
		}
	}
	return all, nil
}

// openBackends returns the configured temperature source and fan controller.
// A missing platform or cpu device is reported before anything is opened.
func openBackends(cfg Config, log *zap.Logger) (TempExtractor, FanController, error) {
	var monitors []*hwmon.HwMon
	if cfg.Platform.Driver == driverHwmon || cfg.CPU.Source == sourceHwmon {
		var err error
		if monitors, err = discover(cfg.HwmonRoot, log); err != nil {
			return nil, nil, fmt.Errorf("unable to enumerate hwmon: %w", err)
		}
	}

	var platform, cpu *hwmon.HwMon
	if cfg.Platform.Driver == driverHwmon {
		h, err := hwmon.Find(monitors, cfg.Platform.Names...)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrPlatformNotFound, err)
		}
		platform = h
	}
	if cfg.CPU.Source == sourceHwmon {
		h, err := hwmon.Find(monitors, cfg.CPU.Names...)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCPUNotFound, err)
		}
		cpu = h
	}

	var temp TempExtractor
	switch cfg.CPU.Source {
	case sourceHwmon:
		temp = hwmon.NewSensor(cpu, cfg.CPU.Channel)
	case sourceCli:
		temp = cli.New(cfg.CPU.Cmd)
	case sourcePsutil:
		temp = psutil.New(cfg.CPU.SensorKey)
	default:
		return nil, nil, fmt.Errorf("cpu.source '%s' is not supported", cfg.CPU.Source)
	}

	var fan FanController
	switch cfg.Platform.Driver {
	case driverHwmon:
		fan = hwmon.NewFan(platform, cfg.Platform.Channel)
	case driverCommanderPro:
		f, err := commanderpro.OpenFan(cfg.Platform.Channel)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrPlatformNotFound, err)
		}
		fan = f
	case driverIPMI:
		f, err := ipmi.Open(cfg.Platform.IPMICmd, cfg.Platform.IPMIZone)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrPlatformNotFound, err)
		}
		fan = f
	default:
		return nil, nil, fmt.Errorf("platform.driver '%s' is not supported", cfg.Platform.Driver)
	}

	return temp, fan, nil
}
