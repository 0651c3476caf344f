package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hwfan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	assert.Equal(t, "/sys/class/hwmon", cfg.HwmonRoot)
	assert.Equal(t, "hwmon", cfg.Platform.Driver)
	assert.Equal(t, []string{"system76"}, cfg.Platform.Names)
	assert.Equal(t, 1, cfg.Platform.Channel)
	assert.Equal(t, "hwmon", cfg.CPU.Source)
	assert.Equal(t, []string{"coretemp", "k10temp"}, cfg.CPU.Names)
	assert.Equal(t, 1, cfg.CPU.Channel)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
interval: 250ms
platform:
  driver: ipmi
  ipmi_cmd: ipmitool -I lanplus -H 10.0.0.2 -U admin -P admin
  ipmi_zone: 1
cpu:
  source: cli
  cmd: cat /tmp/temp
log:
  level: debug
  file: /var/log/hwfan.log
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "ipmi", cfg.Platform.Driver)
	assert.Equal(t, uint8(1), cfg.Platform.IPMIZone)
	assert.Equal(t, "cli", cfg.CPU.Source)
	assert.Equal(t, "cat /tmp/temp", cfg.CPU.Cmd)
	assert.Equal(t, "/var/log/hwfan.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{name: "NegativeInterval", contents: "interval: -1s\n", want: "interval must be > 0"},
		{name: "UnknownDriver", contents: "platform:\n  driver: gpio\n", want: "platform.driver 'gpio' is not supported"},
		{name: "IPMIRequiresCmd", contents: "platform:\n  driver: ipmi\n", want: "platform.ipmi_cmd is required when platform.driver is 'ipmi'"},
		{name: "UnknownSource", contents: "cpu:\n  source: ipmi\n", want: "cpu.source 'ipmi' is not supported"},
		{name: "CliRequiresCmd", contents: "cpu:\n  source: cli\n", want: "cpu.cmd is required when cpu.source is 'cli'"},
		{name: "PlatformChannel", contents: "platform:\n  channel: -1\n", want: "platform.channel must be >= 1"},
		{name: "CPUChannel", contents: "cpu:\n  channel: -2\n", want: "cpu.channel must be >= 1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeTempConfig(t, tc.contents))
			require.EqualError(t, err, tc.want)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeTempConfig(t, "interval: [\n"))
	assert.Error(t, err)
}
