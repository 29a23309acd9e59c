package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ReadFlake returns the generated flake.nix of the named package.
func ReadFlake(t *testing.T, result *HarnessResult, pkg string) string {
	t.Helper()
	data, err := result.FS.Read(filepath.Join(OutputDir, pkg, "flake.nix"))
	require.NoError(t, err, "flake for %q was not generated", pkg)
	return string(data)
}

// InstallPhase extracts the body of the installPhase literal of a flake,
// with the fixed script indentation removed from every line.
func InstallPhase(t *testing.T, flake string) []string {
	t.Helper()

	const open = "installPhase = ''\n"
	start := strings.Index(flake, open)
	require.GreaterOrEqual(t, start, 0, "flake has no installPhase")
	body := flake[start+len(open):]
	end := strings.Index(body, "\n      '';")
	if end < 0 {
		// Empty install phase.
		require.True(t, strings.HasPrefix(body, "      '';"), "unterminated installPhase")
		return nil
	}

	var lines []string
	for _, line := range strings.Split(body[:end], "\n") {
		lines = append(lines, strings.TrimPrefix(line, "        "))
	}
	return lines
}

// AssertStaged checks that a file was staged for pkg with the given content.
func AssertStaged(t *testing.T, result *HarnessResult, pkg, relPath, content string) {
	t.Helper()
	path := filepath.Join(OutputDir, pkg, "src_files", filepath.FromSlash(relPath))
	data, err := result.FS.Read(path)
	require.NoError(t, err, "expected staged file %s", path)
	require.Equal(t, content, string(data), "content of staged file %s", path)
}
