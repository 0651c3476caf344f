package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_Help(t *testing.T) {
	assert.Equal(t, 0, start([]string{"--help"}))
}

func TestStart_UnknownFlag(t *testing.T) {
	assert.Equal(t, 1, start([]string{"--turbo"}))
}

func TestStart_BadConfig(t *testing.T) {
	assert.Equal(t, 1, start([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}))
}

func TestStart_List(t *testing.T) {
	root := t.TempDir()
	writeHwmon(t, root, "hwmon0", map[string]string{"name": "coretemp\n"})

	cfgPath := filepath.Join(t.TempDir(), "hwfan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("hwmon_root: "+root+"\n"), 0o644))

	assert.Equal(t, 0, start([]string{"-c", cfgPath, "--list"}))
}

func TestStart_MissingHardware(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "hwfan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("hwmon_root: "+t.TempDir()+"\n"), 0o644))

	assert.Equal(t, 1, start([]string{"-c", cfgPath, "--no-root-check"}))
}
