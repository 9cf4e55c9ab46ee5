package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// MockCall records one RegistryClient invocation
type MockCall struct {
	Method     string
	Dir        string
	UserConfig string
	Env        map[string]string
	Args       []string
}

// MockRegistryClient is a recording RegistryClient that never spawns processes
type MockRegistryClient struct {
	mu    sync.Mutex
	calls []MockCall

	versionFunc    func(dir, version string) error
	packFunc       func(dir, pkgDir string) (string, error)
	publishFunc    func(args model.PublishArgs) error
	addDistTagFunc func(nameAtVersion, distTag, registry string) error
	whoAmIFunc     func(registry string) error

	// outputLines are written to both streams by every version and publish call,
	// one Write per line, the way npm output arrives through a pipe
	outputLines int
}

func (m *MockRegistryClient) emit(x model.NpmExec, method string) {
	for i := 0; i < m.outputLines; i++ {
		line := fmt.Sprintf("%s %s line %d\n", method, filepath.Base(x.Dir), i)
		_, _ = io.WriteString(x.Stdout, line)
		_, _ = io.WriteString(x.Stderr, line)
	}
}

func (m *MockRegistryClient) record(method string, x model.NpmExec, args ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:     method,
		Dir:        x.Dir,
		UserConfig: x.UserConfig,
		Env:        x.Env,
		Args:       args,
	})
}

func (m *MockRegistryClient) Version(ctx context.Context, x model.NpmExec, version string) error {
	m.record("version", x, version)
	m.emit(x, "version")
	if m.versionFunc != nil {
		return m.versionFunc(x.Dir, version)
	}
	return nil
}

func (m *MockRegistryClient) Pack(ctx context.Context, x model.NpmExec, pkgDir string) (string, error) {
	m.record("pack", x, pkgDir)
	if m.packFunc != nil {
		return m.packFunc(x.Dir, pkgDir)
	}
	return "package-1.0.0.tgz", nil
}

func (m *MockRegistryClient) Publish(ctx context.Context, x model.NpmExec, args model.PublishArgs) error {
	m.record("publish", x, args.Dir, args.DistTag, args.Registry, args.Access)
	m.emit(x, "publish")
	if m.publishFunc != nil {
		return m.publishFunc(args)
	}
	return nil
}

func (m *MockRegistryClient) AddDistTag(ctx context.Context, x model.NpmExec, nameAtVersion, distTag, registry string) error {
	m.record("dist-tag", x, nameAtVersion, distTag, registry)
	if m.addDistTagFunc != nil {
		return m.addDistTagFunc(nameAtVersion, distTag, registry)
	}
	return nil
}

func (m *MockRegistryClient) WhoAmI(ctx context.Context, x model.NpmExec, registry string) error {
	m.record("whoami", x, registry)
	if m.whoAmIFunc != nil {
		return m.whoAmIFunc(registry)
	}
	return nil
}

// Calls returns the recorded calls of method, or every call when method is empty
func (m *MockRegistryClient) Calls(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []MockCall
	for _, c := range m.calls {
		if method == "" || c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	gt.NoError(t, err)
	writeFile(t, path, string(data))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newRunContext(cwd string, env map[string]string, next *model.NextRelease) *model.RunContext {
	if env == nil {
		env = map[string]string{}
	}
	return &model.RunContext{
		Cwd:         cwd,
		Env:         env,
		Stdout:      io.Discard,
		Stderr:      io.Discard,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		NextRelease: next,
	}
}

// setupMonorepo creates a private root with workspaces packages/* and the given
// sub-packages under packages/<dir>
func setupMonorepo(t *testing.T, subs map[string]map[string]any) string {
	t.Helper()
	cwd := t.TempDir()
	writeJSON(t, filepath.Join(cwd, "package.json"), map[string]any{
		"name":       "root",
		"version":    "0.0.0",
		"private":    true,
		"workspaces": []string{"packages/*"},
	})
	for dir, pkg := range subs {
		writeJSON(t, filepath.Join(cwd, "packages", dir, "package.json"), pkg)
	}
	return cwd
}
