package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/interpreter"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, `
interpreter:
  max_call_depth: 200
  call_cache_size: 0
verbose:
  parser: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Interpreter.MaxCallDepth != 200 || cfg.Interpreter.CallCacheSize != 0 {
		t.Fatalf("interpreter section not applied: %#v", cfg.Interpreter)
	}
	if cfg.Lexer.MaxIdentifierLength != 64 || cfg.Lexer.MaxStringLength != 4096 {
		t.Fatalf("lexer defaults lost: %#v", cfg.Lexer)
	}
	if !cfg.Verbose.Parser || cfg.Verbose.Lexer {
		t.Fatalf("verbose section wrong: %#v", cfg.Verbose)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Interpreter.MaxCallDepth != interpreter.DefaultMaxCallDepth {
		t.Fatalf("unexpected depth %d", cfg.Interpreter.MaxCallDepth)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, `
interpreter:
  max_depth: 10
`)
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "max_depth") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, `
interpreter:
  max_call_depth: 0
  call_cache_size: -1
lexer:
  max_string_length: 0
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %#v", verr.Issues)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeFile(t, root, ConfigFileName, "interpreter:\n  max_call_depth: 5\n")
	prog := writeFile(t, root, "src/deep/main.ny", "")
	found, err := FindConfig(prog)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if found != cfgPath {
		t.Fatalf("found %q, want %q", found, cfgPath)
	}
	cfg, err := ConfigFor(prog)
	if err != nil || cfg.Interpreter.MaxCallDepth != 5 {
		t.Fatalf("ConfigFor = %#v, %v", cfg, err)
	}
}

func TestConfigForWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := ConfigFor(filepath.Join(dir, "x.ny"))
	if err != nil || cfg == nil {
		t.Fatalf("ConfigFor = %v, %v", cfg, err)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ny", `
kawaii sq(x) => modoru x * x;
uWu_nyaa() => {
  name = ohayo();
  yomu_ln(name, sq(12));
}
`)
	var out bytes.Buffer
	if _, err := RunFile(path, nil, strings.NewReader("neko\n"), &out); err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if out.String() != "neko 144\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunFileHonoursDepthLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ny", `
kawaii down(n) => modoru down(n + 1);
uWu_nyaa() => down(0);
`)
	cfg := DefaultConfig()
	cfg.Interpreter.MaxCallDepth = 10
	_, err := RunFile(path, cfg, nil, nil)
	if !errors.Is(err, diag.ErrMaxCallDepth) {
		t.Fatalf("expected max depth error, got %v", err)
	}
}

func TestDescribeRendersSnippet(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.ny", "uWu_nyaa() => {\n  x = 5 / 0;\n}\n")
	_, err := RunFile(path, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	got := Describe(err, path)
	for _, want := range []string{"Runtime Error", path + ":2:7", "x = 5 / 0;", "^"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Describe output missing %q:\n%s", want, got)
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.ny"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
