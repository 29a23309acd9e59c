// Package manifest renders the flake.nix of a translated package.
//
// Rendering is deterministic: the same Params always produce byte-identical
// output. Every value placed inside a Nix string literal is escaped for the
// kind of literal it lands in.
package manifest
