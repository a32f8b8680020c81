package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/sandbox"
)

//go:embed templates
var templateFS embed.FS

// file maps an embedded template to its output.
type file struct {
	template string
	output   string
	mode     os.FileMode
	render   bool
}

var files = []file{
	{template: "templates/Dockerfile.tmpl", output: "Dockerfile", mode: 0644, render: true},
	{template: "templates/devcontainer.json.tmpl", output: "devcontainer.json", mode: 0644, render: true},
	{template: "templates/init-firewall.sh", output: "init-firewall.sh", mode: 0755},
}

// Options configures a scaffold.
type Options struct {
	// Name is the sandbox name shown by devcontainer tooling.
	Name string

	// Workdir is the mount point of the worktree in the container.
	Workdir string

	// Force replaces an existing descriptor directory.
	Force bool

	// Env holds KEY=VALUE lines written to .env.
	Env []string

	// EnvFile is copied to .env instead of Env when set.
	EnvFile string
}

// TemplateData is passed to every rendered template.
type TemplateData struct {
	Name          string
	Workdir       string
	WorkspaceName string
}

// Result lists what was written.
type Result struct {
	Dir   string
	Files []string

	// LocalhostEnv is set when an env value points at localhost, which is
	// not the host from inside a container.
	LocalhostEnv bool
}

// Write renders the descriptor into dir/.devcontainer.
func Write(dir string, opts Options) (*Result, error) {
	for _, kv := range opts.Env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			return nil, errors.ValidationError(fmt.Sprintf("invalid env %q: expected KEY=VALUE", kv))
		}
	}

	target, err := securejoin.SecureJoin(dir, sandbox.DescriptorDir)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to resolve descriptor path", err)
	}

	if _, err := os.Stat(target); err == nil {
		if !opts.Force {
			return nil, errors.ValidationError(fmt.Sprintf("%s already exists; use --force to overwrite", target))
		}
		logging.Debug("removing existing descriptor", "path", target)
		if err := os.RemoveAll(target); err != nil {
			return nil, errors.Wrap(errors.ExitGeneralError, "failed to remove existing descriptor", err)
		}
	}

	if err := os.MkdirAll(target, 0755); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to create descriptor directory", err)
	}

	workdir := opts.Workdir
	if workdir == "" {
		workdir = "/workspace"
	}
	data := TemplateData{
		Name:          opts.Name,
		Workdir:       workdir,
		WorkspaceName: filepath.Base(filepath.Clean(dir)),
	}

	result := &Result{Dir: target}
	for _, f := range files {
		content, err := renderFile(f, data)
		if err != nil {
			return nil, err
		}
		if err := writeInside(target, f.output, content, f.mode); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, f.output)
	}

	env, err := envContent(opts)
	if err != nil {
		return nil, err
	}
	if env != nil {
		if err := writeInside(target, ".env", env, 0600); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, ".env")
		result.LocalhostEnv = bytes.Contains(env, []byte("localhost:"))
	}

	logging.Debug("wrote descriptor", "path", target, "files", result.Files)
	return result, nil
}

func renderFile(f file, data TemplateData) ([]byte, error) {
	raw, err := templateFS.ReadFile(f.template)
	if err != nil {
		return nil, err
	}
	if !f.render {
		return raw, nil
	}
	tmpl, err := template.New(f.output).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", f.output, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", f.output, err)
	}
	return buf.Bytes(), nil
}

func envContent(opts Options) ([]byte, error) {
	if opts.EnvFile != "" {
		data, err := os.ReadFile(opts.EnvFile)
		if err != nil {
			return nil, errors.ValidationError(fmt.Sprintf("cannot read env file %s: %v", opts.EnvFile, err))
		}
		return data, nil
	}
	if len(opts.Env) == 0 {
		return nil, nil
	}
	return []byte(strings.Join(opts.Env, "\n") + "\n"), nil
}

// writeInside writes name under root, refusing paths that escape it.
func writeInside(root, name string, data []byte, mode os.FileMode) error {
	path, err := securejoin.SecureJoin(root, name)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to resolve "+name, err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to write "+name, err)
	}
	return nil
}
