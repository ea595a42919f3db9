package invoke

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func skipIfNoShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test requires /bin/sh")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

func TestExecRunner_ExitCodes(t *testing.T) {
	skipIfNoShell(t)

	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"success", "exit 0", 0},
		{"failure", "exit 1", 1},
		{"other code", "exit 7", 7},
	}

	runner := NewExecRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := runner.Run(context.Background(), Invocation{
				Path: "/bin/sh",
				Args: []string{"-c", tt.script},
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if code != tt.want {
				t.Errorf("Run() code = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestExecRunner_NoCommand(t *testing.T) {
	runner := NewExecRunner()

	_, err := runner.Run(context.Background(), Invocation{})
	if err != ErrNoCommand {
		t.Errorf("Run() error = %v, want %v", err, ErrNoCommand)
	}
}

func TestExecRunner_MissingProgram(t *testing.T) {
	skipIfNoShell(t)

	runner := NewExecRunner()
	code, err := runner.Run(context.Background(), Invocation{
		Path: "/nonexistent/program",
	})
	if err == nil {
		t.Fatal("Run() expected error for missing program")
	}
	if code != -1 {
		t.Errorf("Run() code = %d, want -1", code)
	}
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	skipIfNoShell(t)

	dir := t.TempDir()
	runner := NewExecRunner()

	code, err := runner.Run(context.Background(), Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "touch marker"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 0 {
		t.Fatalf("Run() code = %d, want 0", code)
	}

	if _, err := os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Errorf("child did not run in %s: %v", dir, err)
	}
}

func TestExecRunner_Environment(t *testing.T) {
	skipIfNoShell(t)

	var stdout bytes.Buffer
	runner := NewExecRunner()

	code, err := runner.Run(context.Background(), Invocation{
		Path:   "/bin/sh",
		Args:   []string{"-c", `printf "%s" "$POSTER_TOKEN"`},
		Env:    []string{"POSTER_TOKEN=secret"},
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 0 {
		t.Fatalf("Run() code = %d, want 0", code)
	}
	if got := stdout.String(); got != "secret" {
		t.Errorf("child env POSTER_TOKEN = %q, want %q", got, "secret")
	}
}

func TestExecRunner_MissingDirectory(t *testing.T) {
	skipIfNoShell(t)

	runner := NewExecRunner()
	_, err := runner.Run(context.Background(), Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "exit 0"},
		Dir:  "/nonexistent/directory",
	})
	if err == nil {
		t.Error("Run() expected error for missing working directory")
	}
}
