package main

import (
	"time"

	"go.uber.org/zap"
)

// maxUpdateAge forces a re-evaluation of the duty even if nothing changed.
const maxUpdateAge = 10 * time.Second

// TickStatus is the outcome of a single controller tick.
type TickStatus int

const (
	// TickApplied means the duty was written to the fan.
	TickApplied TickStatus = iota
	// TickUnchanged means nothing triggered an update, no write happened.
	TickUnchanged
	// TickSensorUnavailable means the temperature could not be read and
	// control was handed back to the firmware.
	TickSensorUnavailable
)

func (s TickStatus) String() string {
	switch s {
	case TickApplied:
		return "applied"
	case TickUnchanged:
		return "unchanged"
	case TickSensorUnavailable:
		return "sensor-unavailable"
	default:
		return "unknown"
	}
}

// Controller converts CPU temperature into fan duty, damping decelerations.
// It is not safe for concurrent use.
type Controller struct {
	curve *Curve
	state dampingState

	temp TempExtractor
	fan  FanController

	log *zap.Logger
	now func() time.Time
}

func NewController(curve *Curve, temp TempExtractor, fan FanController, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		curve: curve,
		state: newDampingState(time.Now()),
		temp:  temp,
		fan:   fan,
		log:   log,
		now:   time.Now,
	}
}

// Duty returns the last duty written, ok is false before the first write.
func (c *Controller) Duty() (duty Duty, ok bool) {
	if c.state.duty == nil {
		return 0, false
	}
	return *c.state.duty, true
}

// Tick samples the temperature once and updates the fan if needed.
func (c *Controller) Tick() TickStatus {
	milliC, err := c.temp.ReadTemp()
	if err != nil {
		c.log.Debug("unable to read temperature", zap.String("source", c.temp.Name()), zap.Error(err))
		return c.sensorUnavailable()
	}

	duty, ok := c.curve.Lookup(Temperature(milliC / 10))
	if !ok {
		return c.sensorUnavailable()
	}

	now := c.now()
	s := &c.state

	elapsed, updatedBefore := s.sinceUpdate(now)
	longSinceUpdate := updatedBefore && elapsed > maxUpdateAge
	dutyChanged := s.duty == nil || *s.duty != duty

	if duty > s.slidingMax || s.spindownCount == 0 && now.Sub(s.lastMaxUpdated) > maxUpdateAge {
		s.slidingMax = duty
		s.lastMaxUpdated = now
	}

	if s.duty != nil && s.slidingMax == *s.duty && !longSinceUpdate {
		return TickUnchanged
	}

	if s.duty != nil && *s.duty > duty && s.spindownCount < maxSpindownSteps {
		damped := Duty(uint32(*s.duty) * 750 / 1000)
		if damped > duty && damped >= 10_00 {
			duty = damped
			s.slidingMax = duty
			dutyChanged = true
			s.spindownCount++
		} else {
			s.spindownCount = 0
		}
	} else {
		s.spindownCount = 0
	}

	if err := c.fan.SetDuty(uint8(uint32(duty) * 255 / uint32(maxDuty))); err != nil {
		c.log.Debug("unable to write duty", zap.String("fan", c.fan.Name()), zap.Error(err))
	}

	if dutyChanged {
		kind := "spinup"
		if s.spindownCount != 0 {
			kind = "spindown"
		}
		c.log.Info("fan speed",
			zap.Uint16("duty", uint16(duty)/100),
			zap.Int("temp", milliC/1000),
			zap.String("type", kind))
	}

	s.duty = &duty
	s.lastUpdated = &now
	return TickApplied
}

func (c *Controller) sensorUnavailable() TickStatus {
	if err := c.fan.EnableAuto(); err != nil {
		c.log.Debug("unable to enable automatic fan control", zap.String("fan", c.fan.Name()), zap.Error(err))
	}
	return TickSensorUnavailable
}
