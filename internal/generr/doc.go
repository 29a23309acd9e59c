// Package generr defines the error taxonomy of a generation run.
//
// Components return *Error values whose Kind is one of the package sentinels,
// so callers can branch with errors.Is(err, generr.ErrMalformedRecipe) while
// the original cause stays reachable through errors.Unwrap. All kinds are
// terminal: nothing in the pipeline retries.
package generr
