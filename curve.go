package main

import (
	"errors"
	"fmt"
	"math"
)

// Temperature is expressed in hundredths of a degree Celsius, 6000 = 60°C.
type Temperature int32

// Duty is expressed in hundredths of a percent, 10000 = 100%.
type Duty uint16

const maxDuty Duty = 10000

var (
	ErrEmptyCurve    = errors.New("fan curve has no points")
	ErrUnsortedCurve = errors.New("fan curve temperatures must be strictly ascending")
	ErrDutyRange     = errors.New("fan curve duty out of range")
)

// CurvePoint maps a temperature to a fan duty.
type CurvePoint struct {
	Temp Temperature
	Duty Duty
}

// dutyBetween returns the duty for temp if it lies within [p, next].
func (p CurvePoint) dutyBetween(next CurvePoint, temp Temperature) (Duty, bool) {
	if temp == next.Temp {
		return next.Duty, true
	}
	if temp == p.Temp {
		return p.Duty, true
	}
	if p.Temp < temp && temp < next.Temp {
		return p.interpolate(next, temp), true
	}
	return 0, false
}

func (p CurvePoint) interpolate(next CurvePoint, temp Temperature) Duty {
	slope := (float64(next.Duty) - float64(p.Duty)) / float64(next.Temp-p.Temp)
	offset := math.Round(slope * float64(temp-p.Temp))
	return Duty(float64(p.Duty) + offset)
}

// Curve is an immutable piecewise-linear temperature to duty mapping.
type Curve struct {
	points []CurvePoint
}

// NewCurve validates the points and returns the curve.
func NewCurve(points ...CurvePoint) (*Curve, error) {
	if len(points) == 0 {
		return nil, ErrEmptyCurve
	}
	for i, p := range points {
		if p.Duty > maxDuty {
			return nil, fmt.Errorf("%w: point %d has duty %d", ErrDutyRange, i, p.Duty)
		}
		if i > 0 && p.Temp <= points[i-1].Temp {
			return nil, fmt.Errorf("%w: %d after %d", ErrUnsortedCurve, p.Temp, points[i-1].Temp)
		}
	}

	c := &Curve{points: make([]CurvePoint, len(points))}
	copy(c.points, points)
	return c, nil
}

var standardPoints = []CurvePoint{
	{Temp: 59_00, Duty: 0},
	{Temp: 60_00, Duty: 10_00},
	{Temp: 64_00, Duty: 15_00},
	{Temp: 70_00, Duty: 35_00},
	{Temp: 82_00, Duty: 100_00},
}

// StandardCurve is the compiled-in default curve.
func StandardCurve() *Curve {
	return mustCurve(standardPoints...)
}

func mustCurve(points ...CurvePoint) *Curve {
	c, err := NewCurve(points...)
	if err != nil {
		panic(err)
	}
	return c
}

// Points returns a copy of the curve points.
func (c *Curve) Points() []CurvePoint {
	points := make([]CurvePoint, len(c.points))
	copy(points, c.points)
	return points
}

// Lookup returns the duty for temp.
// ok is false only for a single point curve queried exactly at its point.
func (c *Curve) Lookup(temp Temperature) (duty Duty, ok bool) {
	if len(c.points) == 0 {
		return 0, false
	}

	first := c.points[0]
	if temp < first.Temp {
		return first.Duty, true
	}

	for i := 1; i < len(c.points); i++ {
		if duty, ok := c.points[i-1].dutyBetween(c.points[i], temp); ok {
			return duty, true
		}
	}

	last := c.points[len(c.points)-1]
	if temp > last.Temp {
		return last.Duty, true
	}

	return 0, false
}
