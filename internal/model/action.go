// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Action vocabulary.
//
// Why an interface instead of a closed struct?
//
// The set of action kinds is expected to grow (directory creation was added
// after the first three). Consumers type-switch over the concrete types they
// understand and must reject anything else, so a new kind can never be
// silently dropped by an older translator.
package model

import "slices"

// Kind identifies the concrete type of an Action.
type Kind string

const (
	KindWriteFile      Kind = "write_file"
	KindMakeExecutable Kind = "make_executable"
	KindRunCommand     Kind = "run_command"
	KindMakeDirectory  Kind = "make_directory"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Action is one recorded build step. Identity is positional within the
// owning sequence.
type Action interface {
	Kind() Kind
}

// WriteFile records that a file with the given content must exist at Path,
// relative to the package source directory.
type WriteFile struct {
	Path    string
	Content []byte
}

// NewWriteFile creates a WriteFile action. The content is copied.
func NewWriteFile(path string, content []byte) *WriteFile {
	return &WriteFile{Path: path, Content: slices.Clone(content)}
}

// Kind implements Action.
func (*WriteFile) Kind() Kind { return KindWriteFile }

// MakeExecutable records that a previously written file must be executable
// once installed.
type MakeExecutable struct {
	Path string
}

// NewMakeExecutable creates a MakeExecutable action.
func NewMakeExecutable(path string) *MakeExecutable {
	return &MakeExecutable{Path: path}
}

// Kind implements Action.
func (*MakeExecutable) Kind() Kind { return KindMakeExecutable }

// RunCommand records a shell command. Every entry of Argv is a literal shell
// token, already quoted when it contains whitespace. Tokens may contain
// PrefixPlaceholder.
type RunCommand struct {
	Argv []string
}

// NewRunCommand creates a RunCommand action. The argument slice is copied.
func NewRunCommand(argv ...string) *RunCommand {
	return &RunCommand{Argv: slices.Clone(argv)}
}

// Kind implements Action.
func (*RunCommand) Kind() Kind { return KindRunCommand }

// MakeDirectory records that a directory must exist at Path inside the
// install root, even if no file is copied into it.
type MakeDirectory struct {
	Path string
}

// NewMakeDirectory creates a MakeDirectory action.
func NewMakeDirectory(path string) *MakeDirectory {
	return &MakeDirectory{Path: path}
}

// Kind implements Action.
func (*MakeDirectory) Kind() Kind { return KindMakeDirectory }
