package lifecycle

import (
	"errors"
	"testing"

	"github.com/firefly-engineering/grove/internal/system"
)

func TestPlanSharedConfig_FileSystem(t *testing.T) {
	tests := []struct {
		name    string
		project string
		global  string
		answer  bool
		want    string
	}{
		{"project only", "project rules", "", true, "project rules"},
		{"global accepted", "project rules", "global rules", true, "project rules" + SharedConfigSeparator + "global rules"},
		{"global declined", "project rules", "global rules", false, "project rules"},
		{"global without project", "", "global rules", true, "global rules"},
		{"nothing", "", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := system.NewMockFS()
			if tt.project != "" {
				mockFS.AddFile("/repo/CLAUDE.md", []byte(tt.project), 0644)
			}
			if tt.global != "" {
				mockFS.AddFile("/home/dev/CLAUDE.md", []byte(tt.global), 0644)
			}
			env := newTestEnv(t, WithFileSystem(mockFS))
			env.cfg.SharedConfig.GlobalPath = "/home/dev/CLAUDE.md"
			env.prompt.answers = []bool{tt.answer}

			shared, err := env.orch.planSharedConfig("/repo")
			if err != nil {
				t.Fatalf("planSharedConfig() error: %v", err)
			}
			if tt.want == "" {
				if shared != nil {
					t.Fatalf("planSharedConfig() = %q, want nothing", shared.content)
				}
				return
			}
			if shared == nil {
				t.Fatal("planSharedConfig() returned nil")
			}
			if string(shared.content) != tt.want {
				t.Errorf("content = %q, want %q", shared.content, tt.want)
			}

			if err := shared.write(mockFS, "/w/feature-login"); err != nil {
				t.Fatalf("write() error: %v", err)
			}
			got, ok := mockFS.GetFile("/w/feature-login/CLAUDE.md")
			if !ok || string(got) != tt.want {
				t.Errorf("written file = %q (exists %v), want %q", got, ok, tt.want)
			}
		})
	}
}

func TestSharedConfigWrite_Error(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.WriteFileErr = errors.New("read-only file system")

	shared := &sharedConfig{name: "CLAUDE.md", content: []byte("rules")}
	if err := shared.write(mockFS, "/w/feature-login"); err == nil {
		t.Error("write() should fail when the file cannot be written")
	}
}
