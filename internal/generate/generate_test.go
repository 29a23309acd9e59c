package generate

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloRecipe = `package "hello" {
  version = "0.1.0"

  output {
    write_file "bin/hello" {
      content = "#!/bin/sh\necho hi"
    }
    make_executable "bin/hello" {}
  }
}
`

const greetRecipe = `
def _install(f):
    f.system("mkdir", "-p", f.bin)
    f.system("chmod", "+x", f.bin + "/greet")

formula("Greet", version = "2.0", install = _install)
`

func newTestGenerator(t *testing.T, files map[string]string) (*Generator, *fsutil.Afero, *bytes.Buffer) {
	t.Helper()
	fs := fsutil.NewMemory()
	for p, content := range files {
		require.NoError(t, fs.Write(p, []byte(content)))
	}
	var out bytes.Buffer
	return NewGenerator(fs, "flakes", NewStatus(&out, false)), fs, &out
}

func TestGenerateDeclarative(t *testing.T) {
	g, fs, out := newTestGenerator(t, map[string]string{"recipes/hello.hcl": helloRecipe})

	res, err := g.Generate(context.Background(), "recipes/hello.hcl")
	require.NoError(t, err)

	manifestPath := filepath.Join("flakes", "hello", "flake.nix")
	stagedPath := filepath.Join("flakes", "hello", "src_files", "bin", "hello")
	assert.Equal(t, manifestPath, res.ManifestPath)
	assert.Equal(t, filepath.Join("flakes", "hello", "src_files"), res.SourceDir)
	assert.Equal(t, []string{stagedPath}, res.StagedFiles)
	assert.Equal(t, "hello", res.Package.Name)

	staged, err := fs.Read(stagedPath)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi", string(staged))

	text, err := fs.Read(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "src = ./src_files;")
	assert.Contains(t, string(text), "        cp -r bin/hello $out/bin/\n")
	assert.Equal(t, "sha256", res.Digest.Algorithm().String())
	assert.NoError(t, res.Digest.Validate())

	assert.Equal(t,
		"Generated Nix Flake for hello at "+manifestPath+"\n"+
			"Staged 1 file(s) in "+res.SourceDir+"\n",
		out.String())
}

func TestGenerateFormula(t *testing.T) {
	g, fs, out := newTestGenerator(t, map[string]string{"recipes/greet.star": greetRecipe})

	res, err := g.Generate(context.Background(), "recipes/greet.star")
	require.NoError(t, err)

	assert.Empty(t, res.StagedFiles)
	assert.True(t, fs.IsDir(filepath.Join("flakes", "Greet", "empty_src")))

	text, err := fs.Read(res.ManifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), `version = "2.0";`)
	assert.Contains(t, string(text), "src = ./empty_src;")
	assert.Contains(t, string(text), "        mkdir -p $out/bin\n        chmod +x $out/bin/greet\n      '';")
	assert.NotContains(t, string(text), "__PREFIX__")
	assert.Contains(t, out.String(), "Empty source directory created at "+filepath.Join("flakes", "Greet", "empty_src"))
}

func TestGenerateIsIdempotent(t *testing.T) {
	g, fs, _ := newTestGenerator(t, map[string]string{"hello.hcl": helloRecipe})
	ctx := context.Background()

	first, err := g.Generate(ctx, "hello.hcl")
	require.NoError(t, err)
	firstText, err := fs.Read(first.ManifestPath)
	require.NoError(t, err)

	second, err := g.Generate(ctx, "hello.hcl")
	require.NoError(t, err)
	secondText, err := fs.Read(second.ManifestPath)
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, firstText, secondText)
}

func TestGenerateClearsStaleStaging(t *testing.T) {
	g, fs, _ := newTestGenerator(t, map[string]string{
		"hello.hcl":                       helloRecipe,
		"flakes/hello/src_files/bin/old":  "stale",
		"flakes/hello/empty_src/leftover": "stale",
		"flakes/hello/unrelated/keep.txt": "keep",
	})

	_, err := g.Generate(context.Background(), "hello.hcl")
	require.NoError(t, err)

	assert.False(t, fs.Exists(filepath.Join("flakes", "hello", "src_files", "bin", "old")))
	assert.False(t, fs.Exists(filepath.Join("flakes", "hello", "empty_src")))
	assert.True(t, fs.Exists(filepath.Join("flakes", "hello", "unrelated", "keep.txt")))
}

func TestGenerateErrorsLeaveNoManifest(t *testing.T) {
	testCases := []struct {
		name      string
		recipe    string
		expectErr error
	}{
		{
			name:      "dangling executable",
			recipe:    "package \"d\" {\n  output {\n    make_executable \"bin/ghost\" {}\n  }\n}\n",
			expectErr: generr.ErrDanglingExecutableTarget,
		},
		{
			name:      "no formula",
			recipe:    "x = 1\n",
			expectErr: generr.ErrNoFormulaFound,
		},
		{
			name:      "install failure",
			recipe:    "def _i(f):\n    fail(\"boom\")\n\nformula(\"d\", install = _i)\n",
			expectErr: generr.ErrInstallExecution,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, fs, out := newTestGenerator(t, map[string]string{"r": tc.recipe})

			_, err := g.Generate(context.Background(), "r")
			require.ErrorIs(t, err, tc.expectErr)
			assert.False(t, fs.Exists(filepath.Join("flakes", "d", "flake.nix")))
			assert.Empty(t, out.String())
		})
	}
}

func TestGenerateMissingRecipe(t *testing.T) {
	g, _, _ := newTestGenerator(t, nil)
	_, err := g.Generate(context.Background(), "nope.hcl")
	require.ErrorIs(t, err, generr.ErrRecipeNotFound)
}

func TestGenerateFilesystemError(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "hello.hcl", []byte(helloRecipe), 0o644))

	g := NewGenerator(fsutil.New(afero.NewReadOnlyFs(mem)), "flakes", nil)
	_, err := g.Generate(context.Background(), "hello.hcl")
	require.ErrorIs(t, err, generr.ErrFilesystem)
	assert.False(t, generr.Expected(err))
}

func TestGenerateCancelled(t *testing.T) {
	g, fs, _ := newTestGenerator(t, map[string]string{"hello.hcl": helloRecipe})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "hello.hcl")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, fs.Exists(filepath.Join("flakes", "hello")))
}

func TestGenerateAll(t *testing.T) {
	g, fs, _ := newTestGenerator(t, map[string]string{
		"recipes/b_greet.star": greetRecipe,
		"recipes/a_hello.hcl":  helloRecipe,
		"recipes/.hidden":      "garbage",
	})

	results, err := g.GenerateAll(context.Background(), "recipes")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "hello", results[0].Package.Name)
	assert.Equal(t, "Greet", results[1].Package.Name)
	assert.True(t, fs.Exists(filepath.Join("flakes", "Greet", "flake.nix")))

	single, err := g.GenerateAll(context.Background(), "recipes/a_hello.hcl")
	require.NoError(t, err)
	require.Len(t, single, 1)
}

func TestGenerateAllStopsAtFirstError(t *testing.T) {
	g, fs, _ := newTestGenerator(t, map[string]string{
		"recipes/a_hello.hcl":  helloRecipe,
		"recipes/b_bad.star":   "def (",
		"recipes/c_greet.star": greetRecipe,
	})

	results, err := g.GenerateAll(context.Background(), "recipes")
	require.ErrorIs(t, err, generr.ErrMalformedRecipe)
	assert.Len(t, results, 1)
	assert.False(t, fs.Exists(filepath.Join("flakes", "Greet")))
}

func TestGenerateAllEmptyDir(t *testing.T) {
	g, fs, _ := newTestGenerator(t, nil)
	require.NoError(t, fs.MakeDirs("recipes"))

	_, err := g.GenerateAll(context.Background(), "recipes")
	require.ErrorIs(t, err, generr.ErrRecipeNotFound)
}
