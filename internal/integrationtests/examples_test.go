package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BirkeyCo/nixables/internal/testutil"
	"github.com/stretchr/testify/require"
)

// The recipes shipped in the repository must always generate.
func TestExamples_ShippedRecipes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file   string
		pkg    string
		script []string
	}{
		{
			file: "hello.hcl",
			pkg:  "hello",
			script: []string{
				"mkdir -p $out/bin",
				"cp -r bin/hello $out/bin/",
				"chmod +x $out/bin/hello",
			},
		},
		{
			file: "hello_echo.star",
			pkg:  "hello-echo",
			script: []string{
				"mkdir -p $out/bin",
				`sh -c 'echo '"'"'#!/bin/sh`,
				`echo "Hello, Echo from Homebrew-style formula!"'"'"' > $out/bin/hello-echo'`,
				"chmod +x $out/bin/hello-echo",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			t.Parallel()

			data, err := os.ReadFile(filepath.Join("..", "..", "recipes", tc.file))
			require.NoError(t, err)

			result := testutil.RunGeneration(t, map[string]string{tc.file: string(data)}, tc.file)
			require.NoError(t, result.Err)
			require.Equal(t, tc.script, testutil.InstallPhase(t, testutil.ReadFlake(t, result, tc.pkg)))
		})
	}
}
