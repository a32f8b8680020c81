package runtime

import "testing"

func TestMount_Arg(t *testing.T) {
	tests := []struct {
		mount Mount
		want  string
	}{
		{Mount{Source: "/src", Target: "/workspace"}, "/src:/workspace"},
		{Mount{Source: "/home/u/.claude", Target: "/home/node/.claude", ReadOnly: true}, "/home/u/.claude:/home/node/.claude:ro"},
	}

	for _, tt := range tests {
		if got := tt.mount.Arg(); got != tt.want {
			t.Errorf("Arg() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseMount(t *testing.T) {
	tests := []struct {
		spec    string
		want    Mount
		wantErr bool
	}{
		{spec: "/a:/b", want: Mount{Source: "/a", Target: "/b"}},
		{spec: "/a:/b:ro", want: Mount{Source: "/a", Target: "/b", ReadOnly: true}},
		{spec: "/a:/b:rw", want: Mount{Source: "/a", Target: "/b"}},
		{spec: "/a", wantErr: true},
		{spec: ":/b", wantErr: true},
		{spec: "/a:", wantErr: true},
		{spec: "/a:/b:zz", wantErr: true},
		{spec: "/a:/b:ro:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseMount(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMount(%q) expected error, got %+v", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMount(%q) error: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseMount(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}
