package system

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string]*mockFile
	dirs  map[string]bool

	// Error injection
	ReadFileErr  error
	WriteFileErr error
	StatErr      error
	MkdirAllErr  error
	RemoveAllErr error
}

type mockFile struct {
	data []byte
	mode fs.FileMode
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string]*mockFile),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: mode}
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// AddDir adds a directory to the mock filesystem.
func (m *MockFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
}

// GetFile returns the contents of a file in the mock filesystem.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return f.data, true
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return f.data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if m.WriteFileErr != nil {
		return m.WriteFileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: perm}
	return nil
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if f, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(f.data)), mode: f.mode}, nil
	}
	if _, ok := m.dirs[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), isDir: true, mode: fs.ModeDir | 0755}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	if m.MkdirAllErr != nil {
		return m.MkdirAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := path
	for current != "." && current != "/" {
		m.dirs[current] = true
		current = filepath.Dir(current)
	}
	return nil
}

func (m *MockFS) RemoveAll(path string) error {
	if m.RemoveAllErr != nil {
		return m.RemoveAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	under := func(p string) bool {
		return p == path || strings.HasPrefix(p, path+string(filepath.Separator))
	}
	for p := range m.files {
		if under(p) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if under(p) {
			delete(m.dirs, p)
		}
	}
	return nil
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, fileOk := m.files[path]
	_, dirOk := m.dirs[path]
	return fileOk || dirOk
}

func (m *MockFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dirs[path]
	return ok
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int

	// Err simulates a command that could not be started.
	Err error
}

// CommandMatcher decides whether a rule applies to a command.
type CommandMatcher func(dir, name string, args []string) bool

type mockRule struct {
	match     CommandMatcher
	response  MockResponse
	remaining int // 0 means unlimited
}

// MockCall records a command invocation for verification.
type MockCall struct {
	Dir         string
	Name        string
	Args        []string
	Interactive bool
}

// String renders the call the way it would be typed, without the directory.
func (c MockCall) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockRunner implements Runner with pre-recorded responses.
// Rules are matched in registration order; unmatched commands succeed with
// empty output unless Default is set.
type MockRunner struct {
	mu    sync.Mutex
	rules []*mockRule
	calls []MockCall

	// Default is returned when no rule matches.
	Default MockResponse

	// InteractiveErr is returned by RunInteractive if set.
	InteractiveErr error
}

// NewMockRunner creates a new MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// AddRule adds a matching rule with its response.
func (m *MockRunner) AddRule(match CommandMatcher, response MockResponse) {
	m.addRule(match, response, 0)
}

func (m *MockRunner) addRule(match CommandMatcher, response MockResponse, times int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, &mockRule{match: match, response: response, remaining: times})
}

// AddExactMatch adds a rule that matches a specific command exactly.
func (m *MockRunner) AddExactMatch(name string, args []string, response MockResponse) {
	m.AddRule(exactMatcher(name, args), response)
}

// AddExactMatchTimes is AddExactMatch for a rule that is used up after n matches.
func (m *MockRunner) AddExactMatchTimes(n int, name string, args []string, response MockResponse) {
	m.addRule(exactMatcher(name, args), response, n)
}

// AddPrefixMatch adds a rule that matches commands starting with specific args.
func (m *MockRunner) AddPrefixMatch(name string, prefixArgs []string, response MockResponse) {
	m.AddRule(prefixMatcher(name, prefixArgs), response)
}

func exactMatcher(name string, args []string) CommandMatcher {
	return func(dir, n string, a []string) bool {
		if n != name || len(a) != len(args) {
			return false
		}
		for i, arg := range args {
			if a[i] != arg {
				return false
			}
		}
		return true
	}
}

func prefixMatcher(name string, prefixArgs []string) CommandMatcher {
	return func(dir, n string, a []string) bool {
		if n != name || len(a) < len(prefixArgs) {
			return false
		}
		for i, arg := range prefixArgs {
			if a[i] != arg {
				return false
			}
		}
		return true
	}
}

// GetCalls returns all recorded command invocations.
func (m *MockRunner) GetCalls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallStrings returns the recorded invocations rendered with MockCall.String.
func (m *MockRunner) CallStrings() []string {
	calls := m.GetCalls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// CountCalls returns how many recorded calls start with the given command line prefix.
func (m *MockRunner) CountCalls(prefix string) int {
	n := 0
	for _, s := range m.CallStrings() {
		if s == prefix || strings.HasPrefix(s, prefix+" ") {
			n++
		}
	}
	return n
}

// Reset clears rules and recorded calls.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = nil
	m.calls = nil
}

func (m *MockRunner) respond(dir, name string, args []string, interactive bool) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Dir: dir, Name: name, Args: args, Interactive: interactive})

	for _, rule := range m.rules {
		if rule.remaining < 0 || !rule.match(dir, name, args) {
			continue
		}
		if rule.remaining > 0 {
			rule.remaining--
			if rule.remaining == 0 {
				rule.remaining = -1
			}
		}
		return rule.response
	}
	return m.Default
}

func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	resp := m.respond(dir, name, args, false)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{
		Success:  resp.ExitCode == 0,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}, nil
}

func (m *MockRunner) RunInteractive(ctx context.Context, dir, name string, args ...string) error {
	resp := m.respond(dir, name, args, true)
	if m.InteractiveErr != nil {
		return m.InteractiveErr
	}
	return resp.Err
}

var _ Runner = (*MockRunner)(nil)
