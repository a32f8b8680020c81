package resolve

import "testing"

func TestNewIdentity(t *testing.T) {
	tests := []struct {
		path   string
		branch string
		want   Identity
	}{
		{
			path:   "/w/app-worktrees/feature-login",
			branch: "feature/login",
			want: Identity{
				Path:            "/w/app-worktrees/feature-login",
				Folder:          "feature-login",
				RawBranch:       "feature/login",
				SanitizedBranch: "feature-login",
				RootName:        "app-worktrees",
			},
		},
		{
			path:   "/w/app/",
			branch: "main",
			want: Identity{
				Path:            "/w/app",
				Folder:          "app",
				RawBranch:       "main",
				SanitizedBranch: "main",
				RootName:        "w",
			},
		},
		{
			path: "/w/detached",
			want: Identity{
				Path:     "/w/detached",
				Folder:   "detached",
				RootName: "w",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NewIdentity(tt.path, tt.branch); got != tt.want {
				t.Errorf("NewIdentity(%q, %q) = %+v, want %+v", tt.path, tt.branch, got, tt.want)
			}
		})
	}
}
