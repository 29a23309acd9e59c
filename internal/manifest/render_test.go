package manifest

import (
	"strings"
	"testing"

	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/BirkeyCo/nixables/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetFlake = `{
  description = "Nix Flake for Greet (generated from Homebrew-style formula)";

  inputs = {
    nixpkgs.url = "github:NixOS/nixpkgs/nixos-unstable";
  };

  outputs = { self, nixpkgs }:
  let
    system = "x86_64-linux";
    pkgs = nixpkgs.legacyPackages.${system};
  in
  {
    packages.${system}.Greet = pkgs.stdenv.mkDerivation {
      name = "Greet";
      version = "2.0";

      src = ./empty_src;

      installPhase = ''
        mkdir -p $out/bin
        chmod +x $out/bin/greet
      '';

      nativeBuildInputs = [ pkgs.coreutils pkgs.bash ];
    };

    packages.${system}.default = self.packages.${system}.Greet;
    defaultPackage.${system} = self.packages.${system}.Greet;
  };
}
`

func TestRenderFormula(t *testing.T) {
	out, err := Render(Params{
		Name:      "Greet",
		Version:   "2.0",
		Script:    []string{"mkdir -p $out/bin", "chmod +x $out/bin/greet"},
		SourceDir: translate.EmptySourceDir,
		Origin:    OriginFormula,
	})
	require.NoError(t, err)
	assert.Equal(t, greetFlake, out)
}

func TestRenderDeclarativeWithMeta(t *testing.T) {
	spec := model.NewPackageSpec("hello", "0.1.0", model.SyntaxDeclarative, []model.Action{
		model.NewWriteFile("bin/hello", []byte("#!/bin/sh\necho hi")),
		model.NewMakeExecutable("bin/hello"),
	})
	spec.Description = `Says "hi"`
	spec.Homepage = "https://example.com/${x}"

	res, err := translate.Translate(spec)
	require.NoError(t, err)

	out, err := Render(NewParams(spec, res))
	require.NoError(t, err)

	assert.Contains(t, out, `description = "Nix Flake for hello (generated from recipe)";`)
	assert.Contains(t, out, "      src = ./src_files;\n")
	assert.Contains(t, out, "      installPhase = ''\n"+
		"        mkdir -p $out/bin\n"+
		"        cp -r bin/hello $out/bin/\n"+
		"        chmod +x $out/bin/hello\n"+
		"      '';\n")
	assert.Contains(t, out, "      meta = {\n"+
		"        description = \"Says \\\"hi\\\"\";\n"+
		"        homepage = \"https://example.com/\\${x}\";\n"+
		"      };\n    };\n")
}

func TestRenderMetaHomepageOnly(t *testing.T) {
	out, err := Render(Params{Name: "x", SourceDir: "src_files", Homepage: "https://x.org"})
	require.NoError(t, err)
	assert.Contains(t, out, "      meta = {\n        homepage = \"https://x.org\";\n      };\n")
	assert.NotContains(t, out, "        description")
}

func TestRenderEscapesScript(t *testing.T) {
	out, err := Render(Params{
		Name:      "esc",
		SourceDir: "empty_src",
		Script: []string{
			"echo ''",
			"echo ${HOME}",
			"cat <<EOF\nline one\n\n  nested\nEOF",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "        echo '''\n")
	assert.Contains(t, out, "        echo ''${HOME}\n")
	assert.Contains(t, out, "        cat <<EOF\n        line one\n\n          nested\n        EOF\n      '';")
}

func TestRenderEmptyScriptAndOddName(t *testing.T) {
	out, err := Render(Params{Name: "c++", Version: "1", SourceDir: "empty_src"})
	require.NoError(t, err)

	assert.Contains(t, out, "      installPhase = ''\n      '';\n")
	assert.Contains(t, out, `packages.${system}."c++" = pkgs.stdenv.mkDerivation {`)
	assert.Contains(t, out, `defaultPackage.${system} = self.packages.${system}."c++";`)
}

func TestRenderDeterministic(t *testing.T) {
	p := Params{Name: "a", Version: "1", SourceDir: "src_files", Script: []string{"true"}}
	first, err := Render(p)
	require.NoError(t, err)
	second, err := Render(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(first, "defaultPackage"))
}

func TestRenderRequiresNameAndSource(t *testing.T) {
	_, err := Render(Params{SourceDir: "src_files"})
	assert.Error(t, err)
	_, err = Render(Params{Name: "x"})
	assert.Error(t, err)
}

func TestNixString(t *testing.T) {
	assert.Equal(t, `"plain"`, nixString("plain"))
	assert.Equal(t, `"a\\b \"q\" \${v} $x\n"`, nixString("a\\b \"q\" ${v} $x\n"))
}

func TestEscapeIndented(t *testing.T) {
	testCases := []struct{ in, want string }{
		{in: "plain $out", want: "plain $out"},
		{in: "''", want: "'''"},
		{in: "${x}", want: "''${x}"},
		{in: "''${x}", want: "'''''${x}"},
		{in: `'a b'"'"'c'`, want: `'a b'"'"'c'`},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, escapeIndented(tc.in), "input %q", tc.in)
	}
}
