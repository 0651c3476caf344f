package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrSensorUnavailable = errors.New("cpu temperature unavailable")

// Daemon runs the controller at a fixed interval and guarantees the fan is
// handed back to the firmware whenever the loop exits.
type Daemon struct {
	interval   time.Duration
	controller *Controller

	temp TempExtractor
	fan  FanController

	log *zap.Logger

	closeOnce sync.Once
}

// NewDaemon opens the configured backends and prepares the controller.
func NewDaemon(cfg Config, log *zap.Logger) (*Daemon, error) {
	temp, fan, err := openBackends(cfg, log)
	if err != nil {
		return nil, err
	}
	return newDaemon(cfg.Interval, StandardCurve(), temp, fan, log), nil
}

func newDaemon(interval time.Duration, curve *Curve, temp TempExtractor, fan FanController, log *zap.Logger) *Daemon {
	if log == nil {
		log = zap.NewNop()
	}
	return &Daemon{
		interval:   interval,
		controller: NewController(curve, temp, fan, log),
		temp:       temp,
		fan:        fan,
		log:        log,
	}
}

// Run ticks the controller until ctx is done or the temperature becomes
// unavailable. Cancellation is checked once per interval.
func (d *Daemon) Run(ctx context.Context) (err error) {
	defer d.Close()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sampling loop panic: %v", r)
		}
	}()

	d.log.Info("monitoring started",
		zap.String("cpu", d.temp.Name()),
		zap.String("fan", d.fan.Name()),
		zap.Duration("interval", d.interval),
		zap.Any("curve", d.controller.curve.Points()))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		if d.controller.Tick() == TickSensorUnavailable {
			d.log.Error("failed to step", zap.Error(ErrSensorUnavailable))
			return ErrSensorUnavailable
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	return nil
}

// Close enables automatic fan control and releases the hardware handles.
// Only the first call has any effect.
func (d *Daemon) Close() {
	d.closeOnce.Do(func() {
		if err := d.fan.EnableAuto(); err != nil {
			d.log.Warn("unable to enable automatic fan control", zap.String("fan", d.fan.Name()), zap.Error(err))
		}
		if err := d.fan.Close(); err != nil {
			d.log.Warn("unable to close fan controller", zap.String("fan", d.fan.Name()), zap.Error(err))
		}
		if c, ok := d.temp.(io.Closer); ok {
			if err := c.Close(); err != nil {
				d.log.Warn("unable to close temperature source", zap.String("cpu", d.temp.Name()), zap.Error(err))
			}
		}
	})
}
