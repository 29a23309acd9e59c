// Package generate runs the whole pipeline for one recipe: interpret it,
// translate its actions, stage its files and write its flake.nix.
//
// Output for a package named NAME lives under <out>/NAME:
//
//	<out>/NAME/flake.nix
//	<out>/NAME/src_files/...   files written by the recipe
//	<out>/NAME/empty_src/      source of flakes that stage nothing
//
// Both staging directories are cleared before every run so stale files never
// leak into a regenerated flake. Running twice on the same recipe produces
// byte-identical output.
package generate
