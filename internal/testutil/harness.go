package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/elementmodel/internal/app"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Workspace writes files into a fresh temporary directory and returns its
// path. Keys are slash-separated paths relative to the workspace root, e.g.
// "modules/http.hcl". Contents are unindented first.
func Workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "modules"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "documents"), 0755))

	for name, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(Unindent(content)), 0644))
	}
	return root
}

// RunResolve runs the resolve workflow against a workspace built from files,
// with manifests under "modules/" and documents under "documents/".
func RunResolve(t *testing.T, files map[string]string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()
	return run(t, files, configure, func(a *app.App) error {
		return a.Resolve(context.Background())
	})
}

// RunDescribe runs the describe workflow against a workspace built from files.
func RunDescribe(t *testing.T, files map[string]string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()
	return run(t, files, configure, func(a *app.App) error {
		return a.Describe(context.Background())
	})
}

func run(t *testing.T, files map[string]string, configure []func(*app.Config), fn func(*app.App) error) *HarnessResult {
	t.Helper()

	root := Workspace(t, files)
	cfg := &app.Config{
		ModulesPath:  filepath.Join(root, "modules"),
		DocumentPath: filepath.Join(root, "documents"),
		LogLevel:     "debug",
		LogFormat:    "text",
		WorkerCount:  4,
	}
	for _, c := range configure {
		c(cfg)
	}

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	testApp := app.NewApp(context.Background(), out, logs, cfg)
	err := fn(testApp)

	if os.Getenv("ELEMENTMODEL_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       err,
		App:       testApp,
	}
}
