package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type panickingTemp struct{}

func (panickingTemp) Name() string { return "panic" }

func (panickingTemp) ReadTemp() (int, error) { panic("boom") }

type closingTemp struct {
	fakeTemp
	closed int
}

func (c *closingTemp) Close() error {
	c.closed++
	return nil
}

func TestDaemon_SensorFailureStopsLoop(t *testing.T) {
	temp := &fakeTemp{err: errors.New("read error")}
	fan := &fakeFan{}
	d := newDaemon(time.Millisecond, StandardCurve(), temp, fan, zap.NewNop())

	err := d.Run(context.Background())
	require.ErrorIs(t, err, ErrSensorUnavailable)

	assert.Equal(t, 1, temp.reads)
	// one from the tick, one from the exit guard
	assert.Equal(t, 2, fan.enableAutos)
	assert.Equal(t, 1, fan.closes)
}

func TestDaemon_CancelRestoresAutoOnce(t *testing.T) {
	temp := &closingTemp{fakeTemp: fakeTemp{milliC: 65_000}}
	fan := &fakeFan{}
	d := newDaemon(5*time.Millisecond, StandardCurve(), temp, fan, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sampling loop did not stop")
	}

	assert.GreaterOrEqual(t, temp.reads, 1)
	assert.Equal(t, 1, fan.enableAutos)
	assert.Equal(t, 1, fan.closes)
	assert.Equal(t, 1, temp.closed)
	assert.NotEmpty(t, fan.duties)

	d.Close()
	assert.Equal(t, 1, fan.enableAutos)
}

func TestDaemon_CanceledBeforeStart(t *testing.T) {
	temp := &fakeTemp{milliC: 65_000}
	fan := &fakeFan{}
	d := newDaemon(time.Millisecond, StandardCurve(), temp, fan, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, d.Run(ctx))
	assert.Equal(t, 0, temp.reads)
	assert.Equal(t, 1, fan.enableAutos)
}

func TestDaemon_PanicStillRestoresAuto(t *testing.T) {
	fan := &fakeFan{}
	d := newDaemon(time.Millisecond, StandardCurve(), panickingTemp{}, fan, zap.NewNop())

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, fan.enableAutos)
	assert.Equal(t, 1, fan.closes)
}

func writeHwmon(t *testing.T, root, dir string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(path, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(path, name), []byte(content), 0o644))
	}
	return path
}

func TestNewDaemon_Discovery(t *testing.T) {
	root := t.TempDir()
	platform := writeHwmon(t, root, "hwmon0", map[string]string{"name": "system76\n", "pwm1": "0\n", "pwm1_enable": "1\n"})
	writeHwmon(t, root, "hwmon1", map[string]string{"name": "acpitz\n", "temp1_input": "30000\n"})
	writeHwmon(t, root, "hwmon2", map[string]string{"name": "k10temp\n", "temp1_input": "70000\n"})

	cfg := DefaultConfig()
	cfg.HwmonRoot = root

	d, err := NewDaemon(cfg, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, TickApplied, d.controller.Tick())
	pwm, err := os.ReadFile(filepath.Join(platform, "pwm1"))
	require.NoError(t, err)
	assert.Equal(t, "89", string(pwm)) // 3500 * 255 / 10000

	d.Close()
	enable, err := os.ReadFile(filepath.Join(platform, "pwm1_enable"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(enable))
}

func TestNewDaemon_MissingHardware(t *testing.T) {
	tests := []struct {
		name    string
		devices map[string]string
		want    error
	}{
		{name: "no platform", devices: map[string]string{"hwmon0": "coretemp"}, want: ErrPlatformNotFound},
		{name: "no cpu", devices: map[string]string{"hwmon0": "system76"}, want: ErrCPUNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for dir, name := range tt.devices {
				writeHwmon(t, root, dir, map[string]string{"name": name})
			}

			cfg := DefaultConfig()
			cfg.HwmonRoot = root

			_, err := NewDaemon(cfg, zap.NewNop())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
