package system

import (
	"context"
	"os/exec"
	"testing"
)

func TestOSRunner_ExitCodeIsData(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	r := &osRunner{}
	res, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2; exit 3")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Stdout != "out\n" || res.Stderr != "err\n" {
		t.Errorf("Stdout = %q, Stderr = %q", res.Stdout, res.Stderr)
	}
}

func TestOSRunner_UsesDir(t *testing.T) {
	if _, err := exec.LookPath("pwd"); err != nil {
		t.Skip("pwd not available")
	}

	dir := t.TempDir()
	res, err := (&osRunner{}).Run(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(res.Lines()) != 1 {
		t.Fatalf("Lines() = %v", res.Lines())
	}
}

func TestOSRunner_MissingBinary(t *testing.T) {
	_, err := (&osRunner{}).Run(context.Background(), "", "grove-definitely-not-a-binary")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
