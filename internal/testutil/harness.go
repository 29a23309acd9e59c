package testutil

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/BirkeyCo/nixables/internal/app"
	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/BirkeyCo/nixables/internal/generate"
	"github.com/stretchr/testify/require"
)

// OutputDir is the flake output root used by the harness.
const OutputDir = "flakes"

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

// SetupAppTest creates an App over an in-memory filesystem pre-populated with
// files. Log output is captured at debug level.
func SetupAppTest(t *testing.T, cfg app.Config, files map[string]string) (*app.App, *fsutil.Afero, *SafeBuffer) {
	t.Helper()

	fs := fsutil.NewMemory()
	for path, content := range files {
		require.NoError(t, fs.Write(path, []byte(content)))
	}

	cfg.LogLevel = "debug"
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, appConfig, fs)

	t.Cleanup(func() {
		if os.Getenv("NIXABLES_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, fs, logBuffer
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Results   []*generate.Result
	FS        *fsutil.Afero
}

// RunGeneration provides a standardized harness for running the whole
// pipeline using a default background context.
func RunGeneration(t *testing.T, files map[string]string, recipePath string) *HarnessResult {
	t.Helper()
	return RunGenerationWithContext(context.Background(), t, fsutil.NewMemory(), files, recipePath)
}

// RunGenerationWithContext runs the pipeline on fs after writing files into
// it. The filesystem is returned in the result so a test can run again on
// the same state.
func RunGenerationWithContext(ctx context.Context, t *testing.T, fs *fsutil.Afero, files map[string]string, recipePath string) *HarnessResult {
	t.Helper()

	for name, content := range files {
		require.NoError(t, fs.Write(name, []byte(content)))
	}

	cfg, err := app.NewConfig(app.Config{
		RecipePath: recipePath,
		OutputDir:  OutputDir,
		LogLevel:   "debug",
		LogFormat:  "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg, fs)
	results, runErr := testApp.Run(ctx)

	if os.Getenv("NIXABLES_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		Results:   results,
		FS:        fs,
	}
}
