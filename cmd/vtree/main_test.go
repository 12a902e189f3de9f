package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// projectDir returns a directory holding a quiet default configuration.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.Log.Level = "error"
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render", "curry", "--ticks", "1", "-c", projectDir(t))
	if err != nil {
		t.Fatal(err)
	}
	want := "-- tick 0 --\n<p class=\"card\">Hello, Tom!</p>\n" +
		"-- tick 1 --\n<p class=\"card\">Hola, Tom!</p>\n"
	if out != want {
		t.Errorf("output mismatch:\n got: %q\nwant: %q", out, want)
	}
}

func TestRenderCommandPatches(t *testing.T) {
	out, err := run(t, "render", "curry", "-n", "1", "--patches", "-c", projectDir(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `  SetText #`) || !strings.Contains(out, `"Hola"`) {
		t.Errorf("expected the SetText patch in output, got:\n%s", out)
	}
}

func TestRenderCommandJSON(t *testing.T) {
	out, err := run(t, "render", "list", "--json", "-n", "3", "-c", projectDir(t))
	if err != nil {
		t.Fatal(err)
	}
	dec := json.NewDecoder(strings.NewReader(out))
	var ticks []int
	for dec.More() {
		var f demo.Frame
		if err := dec.Decode(&f); err != nil {
			t.Fatal(err)
		}
		if f.Scenario != "list" {
			t.Errorf("scenario = %q", f.Scenario)
		}
		ticks = append(ticks, f.Tick)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, ticks); diff != "" {
		t.Errorf("ticks mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommandDefaultScenario(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Log.Level = "error"
	cfg.Preview.Scenario = "toggle"
	path := filepath.Join(dir, config.YAMLConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "render", "-n", "1", "-c", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<aside") || !strings.Contains(out, "closed") {
		t.Errorf("expected the toggle scenario, got:\n%s", out)
	}
}

func TestRenderCommandUnknownScenario(t *testing.T) {
	_, err := run(t, "render", "nope", "-c", projectDir(t))
	if !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Fatalf("err = %v, want %s", err, errors.CodeConfigInvalid)
	}
}

func TestRenderCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"log": {"level": "loud"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "render", "list", "-c", dir)
	if !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Fatalf("err = %v, want %s", err, errors.CodeConfigInvalid)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, config.ConfigFileName) {
		t.Errorf("output = %q", out)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(config.New().Preview, cfg.Preview); diff != "" {
		t.Errorf("preview config mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, "init", dir); !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Errorf("second init err = %v, want %s", err, errors.CodeConfigInvalid)
	}
	if _, err := run(t, "init", dir, "--force", "--format", "yaml"); err != nil {
		t.Errorf("forced init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.YAMLConfigFileName)); err != nil {
		t.Errorf("yaml config not written: %v", err)
	}
	if _, err := run(t, "init", t.TempDir(), "--format", "toml"); !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Errorf("toml init err = %v, want %s", err, errors.CodeConfigInvalid)
	}
}

func TestScenariosCommand(t *testing.T) {
	out, err := run(t, "scenarios")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(demo.Names()) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(demo.Names()), out)
	}
	if !strings.HasPrefix(lines[0], "curry") {
		t.Errorf("first line = %q, want curry", lines[0])
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("version = %q", out)
	}
}
