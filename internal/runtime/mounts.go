package runtime

import (
	"fmt"
	"strings"
)

// Mount is a bind mount from the host into a container
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Arg renders the mount for the engine's -v flag.
func (m Mount) Arg() string {
	arg := m.Source + ":" + m.Target
	if m.ReadOnly {
		arg += ":ro"
	}
	return arg
}

// ParseMount parses "source:target" or "source:target:ro".
func ParseMount(spec string) (Mount, error) {
	parts := strings.Split(spec, ":")
	switch {
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return Mount{Source: parts[0], Target: parts[1]}, nil
	case len(parts) == 3 && parts[0] != "" && parts[1] != "":
		switch parts[2] {
		case "ro":
			return Mount{Source: parts[0], Target: parts[1], ReadOnly: true}, nil
		case "rw":
			return Mount{Source: parts[0], Target: parts[1]}, nil
		}
	}
	return Mount{}, fmt.Errorf("invalid mount %q: expected source:target[:ro]", spec)
}
