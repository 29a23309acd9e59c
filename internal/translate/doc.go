// Package translate turns the action sequence of a model.PackageSpec into the
// files to stage next to a flake and the shell lines of its install phase.
//
// Translation is pure: it reads the spec, never mutates it, and touches no
// filesystem. Writing the staged files is left to the caller.
package translate
