package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns whatever it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return buf.String()
}

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.slang")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp source: %v", err)
	}
	return path
}

func TestExecuteRunsSourceDirectly(t *testing.T) {
	path := writeTempSource(t, `print_value(2 + 3);`)

	var runErr error
	out := captureStdout(t, func() {
		runErr = runExecute(nil, []string{path})
	})
	if runErr != nil {
		t.Fatalf("runExecute: %v", runErr)
	}
	if strings.TrimSpace(out) != "5" {
		t.Errorf("output = %q, want %q", out, "5")
	}
}

func TestExecuteMissingFileIsNoInput(t *testing.T) {
	err := runExecute(nil, []string{filepath.Join(t.TempDir(), "missing.slang")})
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if exitCode(err) != exitNoInput {
		t.Errorf("exitCode = %d, want %d (no input)", exitCode(err), exitNoInput)
	}
}

func TestExecuteBadProgramIsDataError(t *testing.T) {
	path := writeTempSource(t, `let x: i32 = "not a number";`)
	err := runExecute(nil, []string{path})
	if err == nil {
		t.Fatalf("expected a semantic error")
	}
	if exitCode(err) != exitDataErr {
		t.Errorf("exitCode = %d, want %d (data error)", exitCode(err), exitDataErr)
	}
}

func TestCompileThenRunRoundTrips(t *testing.T) {
	srcPath := writeTempSource(t, `
		fn double(n: i32) -> i32 { n * 2 }
		print_value(double(21));
	`)
	outPath := filepath.Join(t.TempDir(), "prog.slbc")
	outputFile = outPath
	defer func() { outputFile = "" }()

	if err := runCompile(nil, []string{srcPath}); err != nil {
		t.Fatalf("runCompile: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected bytecode file at %s: %v", outPath, err)
	}

	var runErr error
	out := captureStdout(t, func() {
		runErr = runRun(nil, []string{outPath})
	})
	if runErr != nil {
		t.Fatalf("runRun: %v", runErr)
	}
	if strings.TrimSpace(out) != "42" {
		t.Errorf("output = %q, want %q", out, "42")
	}
}

func TestRunRejectsGarbageBytecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.slbc")
	if err := os.WriteFile(path, []byte("not bytecode"), 0o644); err != nil {
		t.Fatalf("writing garbage file: %v", err)
	}
	err := runRun(nil, []string{path})
	if err == nil {
		t.Fatalf("expected an error for a malformed bytecode file")
	}
	if exitCode(err) != exitDataErr {
		t.Errorf("exitCode = %d, want %d (data error)", exitCode(err), exitDataErr)
	}
}
