package runtime

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/system"
)

var (
	errUnavailable = errors.ToolUnavailable("docker", nil)
	errDown        = errors.ToolFailure("docker", "ps", "Cannot connect to the Docker daemon")
)

// MockContainer is a container known to MockEngine
type MockContainer struct {
	Running bool
	Image   string
	Labels  map[string]string
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockEngine is an in-memory Engine for testing. Containers and images
// behave like a real engine: run adds, stop halts, remove deletes.
type MockEngine struct {
	mu sync.RWMutex

	Containers map[string]*MockContainer

	// Images maps repository:tag to its labels.
	Images map[string]map[string]string

	// Down makes the engine unreachable: queries read as negative and
	// listings fail.
	Down bool

	// Unavailable makes every call fail as if the CLI were missing.
	Unavailable bool

	// Failures holds stderr for operations that should exit nonzero, keyed by
	// method name or "Method:target".
	Failures map[string]string

	// ExecOutput is returned as stdout by Exec, keyed by container name.
	ExecOutput map[string]string

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// NewMockEngine creates a new mock engine
func NewMockEngine() *MockEngine {
	return &MockEngine{
		Containers: make(map[string]*MockContainer),
		Images:     make(map[string]map[string]string),
		Failures:   make(map[string]string),
		ExecOutput: make(map[string]string),
	}
}

func (m *MockEngine) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// AddContainer adds a container to the mock
func (m *MockEngine) AddContainer(name string, running bool, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers[name] = &MockContainer{Running: running, Labels: labels}
}

// AddImage adds an image to the mock
func (m *MockEngine) AddImage(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images[name] = labels
}

// Fail makes method exit nonzero with stderr. An optional target restricts
// the failure to one container or image.
func (m *MockEngine) Fail(method, stderr string, target ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := method
	if len(target) > 0 {
		key += ":" + target[0]
	}
	m.Failures[key] = stderr
}

// GetCallsFor returns all calls for a specific method
func (m *MockEngine) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Called reports whether method was called with target as its first argument.
func (m *MockEngine) Called(method, target string) bool {
	for _, call := range m.GetCallsFor(method) {
		if len(call.Args) > 0 && call.Args[0] == target {
			return true
		}
	}
	return false
}

// Methods returns the recorded method names in call order.
func (m *MockEngine) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.CallLog))
	for i, c := range m.CallLog {
		out[i] = c.Method
	}
	return out
}

// failure returns a failing result if one is configured for method/target.
// Callers hold the lock.
func (m *MockEngine) failure(method, target string) *system.Result {
	stderr, ok := m.Failures[method+":"+target]
	if !ok {
		stderr, ok = m.Failures[method]
	}
	if !ok {
		return nil
	}
	return &system.Result{Success: false, Stderr: stderr, ExitCode: 1}
}

func okResult() *system.Result {
	return &system.Result{Success: true}
}

func (m *MockEngine) Name() string {
	return "mock"
}

func (m *MockEngine) Available(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Available")
	return !m.Unavailable
}

func (m *MockEngine) IsEngineRunning(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IsEngineRunning")
	return !m.Unavailable && !m.Down
}

func (m *MockEngine) ContainerExists(ctx context.Context, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ContainerExists", name)
	if m.Unavailable || m.Down {
		return false
	}
	_, exists := m.Containers[name]
	return exists
}

func (m *MockEngine) IsContainerRunning(ctx context.Context, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IsContainerRunning", name)
	if m.Unavailable || m.Down {
		return false
	}
	c, exists := m.Containers[name]
	return exists && c.Running
}

func (m *MockEngine) unreachable() error {
	if m.Unavailable {
		return errUnavailable
	}
	if m.Down {
		return errDown
	}
	return nil
}

func (m *MockEngine) ListContainers(ctx context.Context, all bool) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListContainers", all)
	if err := m.unreachable(); err != nil {
		return nil, err
	}
	var names []string
	for name, c := range m.Containers {
		if all || c.Running {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockEngine) ListContainersByLabel(ctx context.Context, key, value string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListContainersByLabel", key, value)
	if err := m.unreachable(); err != nil {
		return nil, err
	}
	var names []string
	for name, c := range m.Containers {
		if c.Labels[key] == value {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockEngine) ListImages(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListImages")
	if err := m.unreachable(); err != nil {
		return nil, err
	}
	var names []string
	for name := range m.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockEngine) ListImagesByLabel(ctx context.Context, key, value string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListImagesByLabel", key, value)
	if err := m.unreachable(); err != nil {
		return nil, err
	}
	var names []string
	for name, labels := range m.Images {
		if labels[key] == value {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockEngine) ContainerLabel(ctx context.Context, name, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ContainerLabel", name, key)
	if c, exists := m.Containers[name]; exists {
		return c.Labels[key]
	}
	return ""
}

func (m *MockEngine) ImageLabel(ctx context.Context, name, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ImageLabel", name, key)
	return m.Images[name][key]
}

func (m *MockEngine) BuildImage(ctx context.Context, opts BuildOptions) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("BuildImage", opts.Tag, opts)
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("BuildImage", opts.Tag); res != nil {
		return res, nil
	}
	tag := opts.Tag
	if !strings.Contains(tag, ":") {
		tag += ":latest"
	}
	m.Images[tag] = nil
	return okResult(), nil
}

func (m *MockEngine) RunContainer(ctx context.Context, opts RunOptions) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RunContainer", opts.Name, opts)
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("RunContainer", opts.Name); res != nil {
		return res, nil
	}
	if _, exists := m.Containers[opts.Name]; exists {
		return &system.Result{ExitCode: 125, Stderr: "Conflict. The container name is already in use"}, nil
	}
	m.Containers[opts.Name] = &MockContainer{Running: true, Image: opts.Image, Labels: opts.Labels}
	return okResult(), nil
}

func (m *MockEngine) StopContainer(ctx context.Context, name string, timeoutSeconds int) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("StopContainer", name, timeoutSeconds)
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("StopContainer", name); res != nil {
		return res, nil
	}
	c, exists := m.Containers[name]
	if !exists {
		return &system.Result{Success: true, ExitCode: 1, Stderr: "Error: No such container: " + name}, nil
	}
	c.Running = false
	return okResult(), nil
}

func (m *MockEngine) RemoveContainer(ctx context.Context, name string, force bool) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RemoveContainer", name, force)
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("RemoveContainer", name); res != nil {
		return res, nil
	}
	c, exists := m.Containers[name]
	if !exists {
		return &system.Result{Success: true, ExitCode: 1, Stderr: "Error: No such container: " + name}, nil
	}
	if c.Running && !force {
		return &system.Result{ExitCode: 1, Stderr: "cannot remove a running container"}, nil
	}
	delete(m.Containers, name)
	return okResult(), nil
}

func (m *MockEngine) RemoveImage(ctx context.Context, name string, force bool) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RemoveImage", name, force)
	if m.Unavailable {
		return nil, errUnavailable
	}
	key := "RemoveImage"
	if force {
		key = "RemoveImageForce"
	}
	if res := m.failure(key, name); res != nil {
		return res, nil
	}
	if _, exists := m.Images[name]; !exists {
		return &system.Result{Success: true, ExitCode: 1, Stderr: "Error: No such image: " + name}, nil
	}
	delete(m.Images, name)
	return okResult(), nil
}

func (m *MockEngine) Exec(ctx context.Context, name string, command []string, opts ExecOptions) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Exec", name, command, opts)
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("Exec", name); res != nil {
		return res, nil
	}
	c, exists := m.Containers[name]
	if !exists || !c.Running {
		return &system.Result{ExitCode: 1, Stderr: "container " + name + " is not running"}, nil
	}
	return &system.Result{Success: true, Stdout: m.ExecOutput[name]}, nil
}

func (m *MockEngine) ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ExecInteractive", name, command, opts)
	if m.Unavailable {
		return errUnavailable
	}
	return nil
}

func (m *MockEngine) PruneDanglingImages(ctx context.Context) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("PruneDanglingImages")
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("PruneDanglingImages", ""); res != nil {
		return res, nil
	}
	return okResult(), nil
}

func (m *MockEngine) PruneDanglingVolumes(ctx context.Context) (*system.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("PruneDanglingVolumes")
	if m.Unavailable {
		return nil, errUnavailable
	}
	if res := m.failure("PruneDanglingVolumes", ""); res != nil {
		return res, nil
	}
	return okResult(), nil
}

var _ Engine = (*MockEngine)(nil)
