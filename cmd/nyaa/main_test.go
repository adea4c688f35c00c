package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func invoke(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevIn, prevOut, prevErr := stdin, stdout, stderr
	stdin, stdout, stderr = strings.NewReader(input), &out, &errOut
	t.Cleanup(func() { stdin, stdout, stderr = prevIn, prevOut, prevErr })
	code := run(args)
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.ny")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestVersionAndUsage(t *testing.T) {
	code, out, _ := invoke(t, "", "version")
	if code != 0 || strings.TrimSpace(out) != cliToolVersion {
		t.Fatalf("version: code=%d out=%q", code, out)
	}
	code, _, errOut := invoke(t, "")
	if code != 1 || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("no args: code=%d stderr=%q", code, errOut)
	}
}

func TestRunProgram(t *testing.T) {
	path := writeSource(t, "uWu_nyaa() => { yomu_ln(\"nyaa\", 1 + 2 * 3); }\n")
	for _, args := range [][]string{{path}, {"run", path}, {"run", "-cache-size", "0", path}} {
		code, out, errOut := invoke(t, "", args...)
		if code != 0 || out != "nyaa 7\n" {
			t.Fatalf("%v: code=%d out=%q stderr=%q", args, code, out, errOut)
		}
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	path := writeSource(t, "uWu_nyaa() => {\n  x = 5 / 0;\n}\n")
	code, _, errOut := invoke(t, "", path)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	for _, want := range []string{"Runtime Error", "division by zero", "x = 5 / 0;", "^"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestMaxDepthFlag(t *testing.T) {
	path := writeSource(t, "kawaii f(n) => modoru f(n + 1);\nuWu_nyaa() => f(0);\n")
	code, _, errOut := invoke(t, "", "-max-depth", "5", path)
	if code != 1 || !strings.Contains(errOut, "Recursion Error") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestTokensAndAST(t *testing.T) {
	path := writeSource(t, "uWu_nyaa() => x = 1;\n")
	code, out, errOut := invoke(t, "", "tokens", path)
	if code != 0 {
		t.Fatalf("tokens failed: %s", errOut)
	}
	for _, want := range []string{"uWu_nyaa", "ID(x)", "INT(1)", "EOF"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tokens output missing %q:\n%s", want, out)
		}
	}
	code, out, errOut = invoke(t, "", "ast", path)
	if code != 0 {
		t.Fatalf("ast failed: %s", errOut)
	}
	if !strings.Contains(out, `"type": "Program"`) || !strings.Contains(out, `"type": "Assignment"`) {
		t.Fatalf("unexpected ast output:\n%s", out)
	}
}

func TestMissingFile(t *testing.T) {
	code, _, errOut := invoke(t, "", filepath.Join(t.TempDir(), "nope.ny"))
	if code != 1 || errOut == "" {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestReplSession(t *testing.T) {
	input := strings.Join([]string{
		"kawaii f(a) => {",
		"  modoru a * 2;",
		"}",
		"f(21)",
		"x = 1 / 0;",
		`yomu_ln("ok")`,
		"jaa ne",
		`yomu_ln("after")`,
	}, "\n") + "\n"
	code, out, errOut := invoke(t, input, "repl")
	if code != 0 {
		t.Fatalf("repl exit code %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "42\n") || !strings.Contains(out, "ok\n") {
		t.Fatalf("unexpected repl output %q", out)
	}
	if strings.Contains(out, "after") {
		t.Fatalf("repl kept running past the exit word: %q", out)
	}
	if !strings.Contains(errOut, "division by zero") {
		t.Fatalf("expected the error to be reported, stderr %q", errOut)
	}
	if !strings.Contains(out, promptCont) {
		t.Fatalf("expected continuation prompts for the multi-line definition")
	}
}

func TestReplSharesStdinWithInput(t *testing.T) {
	input := "x = ohayo()\nhello\nyomu_ln(x)\n"
	code, out, errOut := invoke(t, input, "repl")
	if code != 0 || errOut != "" {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	if !strings.Contains(out, "hello\n") {
		t.Fatalf("ohayo() did not receive the next line: %q", out)
	}
}

func TestReplStopsAtEOF(t *testing.T) {
	code, out, _ := invoke(t, "1 + 1\n", "repl")
	if code != 0 || !strings.Contains(out, "2\n") {
		t.Fatalf("code=%d out=%q", code, out)
	}
}
