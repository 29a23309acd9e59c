// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of an interpreted package
// recipe. Its core purpose is to hold, in a strongly-typed and immutable form,
// everything a recipe declared: the package metadata and the ordered list of
// build actions it recorded.
//
// # Core Concepts
//
//   - PackageSpec: The result of interpreting one recipe. It carries the
//     package name, version, optional metadata and the action sequence.
//
//   - Action: One recorded build step. Actions are plain records (write a
//     file, mark a file executable, run a command, create a directory). They
//     describe intent only; nothing in this package performs side effects.
//
//   - StagedFile: A file that has to be placed into the flake's source
//     directory before the downstream builder runs the install phase.
//
// Why a separate model package?
//
// Both recipe syntaxes (the HCL based declarative syntax and the Starlark
// based formula syntax) produce the same model. The translator and the
// manifest renderer only ever see this model, so they stay unaware of how a
// recipe was written.
package model
