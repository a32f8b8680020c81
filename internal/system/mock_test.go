package system

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestMockFS_ReadWriteFile(t *testing.T) {
	mockFS := NewMockFS()

	if err := mockFS.WriteFile("/repo/CLAUDE.md", []byte("hello world"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := mockFS.ReadFile("/repo/CLAUDE.md")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("ReadFile = %q, want %q", string(data), "hello world")
	}

	if _, err := mockFS.ReadFile("/nonexistent"); err != fs.ErrNotExist {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_StatAndDirs(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/repo/.devcontainer/Dockerfile", []byte("FROM x"), 0644)

	if !mockFS.IsDir("/repo/.devcontainer") {
		t.Error("AddFile should create parent directories")
	}
	if !mockFS.Exists("/repo/.devcontainer/Dockerfile") {
		t.Error("file should exist")
	}

	info, err := mockFS.Stat("/repo/.devcontainer/Dockerfile")
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if info.IsDir() || info.Name() != "Dockerfile" {
		t.Errorf("Stat = {name %q, dir %v}, want Dockerfile file", info.Name(), info.IsDir())
	}

	if err := mockFS.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mockFS.IsDir(dir) {
			t.Errorf("IsDir(%q) = false after MkdirAll", dir)
		}
	}
}

func TestMockFS_RemoveAll(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/repo/.devcontainer/Dockerfile", []byte("FROM x"), 0644)
	mockFS.AddFile("/repo/.devcontainer-notes", []byte("keep"), 0644)

	if err := mockFS.RemoveAll("/repo/.devcontainer"); err != nil {
		t.Fatalf("RemoveAll error: %v", err)
	}
	if mockFS.Exists("/repo/.devcontainer") || mockFS.Exists("/repo/.devcontainer/Dockerfile") {
		t.Error("directory and contents should be gone")
	}
	if !mockFS.Exists("/repo/.devcontainer-notes") {
		t.Error("sibling with a shared name prefix should be kept")
	}
	if err := mockFS.RemoveAll("/missing"); err != nil {
		t.Errorf("RemoveAll on a missing path = %v, want nil", err)
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.WriteFileErr = errors.New("disk full")

	if err := mockFS.WriteFile("/x", nil, 0644); err == nil {
		t.Error("expected injected WriteFile error")
	}
}

func TestMockRunner_Rules(t *testing.T) {
	m := NewMockRunner()
	m.AddExactMatch("git", []string{"branch", "--show-current"}, MockResponse{Stdout: "main\n"})
	m.AddPrefixMatch("git", []string{"rev-parse"}, MockResponse{ExitCode: 128, Stderr: "fatal: Needed a single revision"})

	ctx := context.Background()

	res, err := m.Run(ctx, "/repo", "git", "branch", "--show-current")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !res.Success || res.Stdout != "main\n" {
		t.Errorf("Run = %+v, want success with main", res)
	}

	res, err = m.Run(ctx, "/repo", "git", "rev-parse", "--verify", "nope")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Success || res.ExitCode != 128 {
		t.Errorf("Run = %+v, want exit 128", res)
	}

	res, err = m.Run(ctx, "/repo", "git", "status")
	if err != nil || !res.Success {
		t.Errorf("unmatched command should succeed, got %+v, %v", res, err)
	}

	calls := m.GetCalls()
	if len(calls) != 3 {
		t.Fatalf("len(calls) = %d, want 3", len(calls))
	}
	if calls[0].Dir != "/repo" {
		t.Errorf("calls[0].Dir = %q, want /repo", calls[0].Dir)
	}
	if got := calls[1].String(); got != "git rev-parse --verify nope" {
		t.Errorf("calls[1] = %q", got)
	}
	if got := m.CountCalls("git rev-parse"); got != 1 {
		t.Errorf("CountCalls = %d, want 1", got)
	}
}

func TestMockRunner_Times(t *testing.T) {
	m := NewMockRunner()
	args := []string{"inspect", "-f", "{{.State.Running}}", "c"}
	m.AddExactMatchTimes(2, "docker", args, MockResponse{Stdout: "false\n"})
	m.AddExactMatch("docker", args, MockResponse{Stdout: "true\n"})

	ctx := context.Background()
	var got []string
	for i := 0; i < 4; i++ {
		res, _ := m.Run(ctx, "", "docker", args...)
		got = append(got, res.Stdout)
	}

	want := []string{"false\n", "false\n", "true\n", "true\n"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMockRunner_Err(t *testing.T) {
	m := NewMockRunner()
	m.AddPrefixMatch("docker", nil, MockResponse{Err: ErrNotFound})

	_, err := m.Run(context.Background(), "", "docker", "info")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStart(t *testing.T) {
	m := NewMockRunner()
	m.AddExactMatch("git", []string{"status", "--porcelain"}, MockResponse{Stdout: " M a.go\n"})

	res := <-Start(context.Background(), m, "/repo", "git", "status", "--porcelain")
	if res.Err != nil {
		t.Fatalf("Start error: %v", res.Err)
	}
	if lines := res.Result.Lines(); len(lines) != 1 || lines[0] != "M a.go" {
		t.Errorf("Lines() = %v, want [M a.go]", lines)
	}
}
