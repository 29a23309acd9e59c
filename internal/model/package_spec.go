// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines PackageSpec, the interpreted form of a recipe, and the
// small set of values shared by the translator and the renderer.
package model

import "slices"

const (
	// PrefixPlaceholder is the token recipe authors use for the install root.
	PrefixPlaceholder = "__PREFIX__"

	// InstallRoot is the manifest's own reference to the install root.
	InstallRoot = "$out"
)

// Syntax names the recipe surface syntax a PackageSpec was produced from.
type Syntax string

const (
	SyntaxDeclarative Syntax = "declarative"
	SyntaxFormula     Syntax = "formula"
)

// String implements fmt.Stringer.
func (s Syntax) String() string {
	return string(s)
}

// PackageSpec is the result of interpreting a single recipe.
type PackageSpec struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Syntax      Syntax
	Actions     []Action
}

// NewPackageSpec builds a PackageSpec that owns a copy of the given actions.
func NewPackageSpec(name, version string, syntax Syntax, actions []Action) *PackageSpec {
	return &PackageSpec{
		Name:    name,
		Version: version,
		Syntax:  syntax,
		Actions: slices.Clone(actions),
	}
}

// StagedFile is a file placed into the flake's source directory.
type StagedFile struct {
	Path    string
	Content []byte
}
