// Package recipe turns recipe source text into a model.PackageSpec.
//
// Two surface syntaxes are supported, and the syntax is chosen by looking at
// the structure of the file, never at its extension:
//
//   - Declarative recipes are HCL documents with a single `package` block.
//     Its `output` block lists `write_file`, `make_executable` and `directory`
//     blocks, which are recorded as actions in source order.
//
//   - Formula recipes are Starlark programs. Calling the predeclared
//     `formula(...)` builtin registers a unit with its metadata and an install
//     function. The install function receives a context exposing path helpers
//     (`bin`, `lib`, `man`, ...) and a `system` builtin that records commands
//     instead of running them.
//
// Interpretation never touches the real system: HCL expressions only see a
// fixed set of pure functions, and Starlark runs without `load`, with a step
// budget, and with `print` redirected to the debug log.
package recipe
