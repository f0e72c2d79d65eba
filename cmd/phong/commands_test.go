package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetErr(&stderr)
	root.SetOut(&stderr)
	err := root.ExecuteContext(context.Background())
	return stderr.String(), err
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height
}

func TestSnapshotCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cube.png")

	if _, err := execute(t, "snapshot", "--width", "40", "--height", "30", "--out", out, "--time", "1"); err != nil {
		t.Fatal(err)
	}
	if w, h := pngSize(t, out); w != 40 || h != 30 {
		t.Errorf("size = %dx%d, want 40x30", w, h)
	}
}

func TestSnapshotSequence(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "spin.png")

	if _, err := execute(t, "snapshot", "--width", "16", "--height", "16", "--out", out, "--count", "3"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"spin-000.png", "spin-001.png", "spin-002.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(cfgPath, []byte(`{"width": 24, "height": 20, "background": "#202030"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "cube.png")
	logPath := filepath.Join(dir, "phong.log")

	_, err := execute(t, "snapshot", "--config", cfgPath, "--height", "12", "--out", out,
		"--log-file", logPath, "--log-level", "debug")
	if err != nil {
		t.Fatal(err)
	}
	if w, h := pngSize(t, out); w != 24 || h != 12 {
		t.Errorf("size = %dx%d, want 24x12", w, h)
	}

	logged, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logged), "wrote snapshot") {
		t.Errorf("log file = %q", logged)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad log level", []string{"snapshot", "--log-level", "loud"}, "log level"},
		{"invalid size", []string{"snapshot", "--width", "-1", "--out", filepath.Join(dir, "a.png")}, "config"},
		{"missing config", []string{"snapshot", "--config", filepath.Join(dir, "none.json")}, "none.json"},
		{"missing model", []string{"snapshot", "--model", filepath.Join(dir, "none.glb")}, "load model"},
		{"zero count", []string{"snapshot", "--count", "0"}, "count"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}
