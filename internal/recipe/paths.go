package recipe

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	errEmptyPath    = errors.New("path must not be empty")
	errAbsolutePath = errors.New("path must be relative")
	errEscapingPath = errors.New("path must stay inside the package source directory")
)

// cleanRelPath validates a recipe-declared path and returns its clean form.
// Paths are always slash separated, whatever the host OS.
func cleanRelPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errEmptyPath
	}
	if path.IsAbs(p) || strings.HasPrefix(p, `\`) {
		return "", fmt.Errorf("%q: %w", p, errAbsolutePath)
	}

	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%q: %w", p, errEscapingPath)
	}
	return cleaned, nil
}

// validatePackageName checks that name can be used as an output directory.
func validatePackageName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("package name must not be empty")
	case name == "." || name == "..":
		return fmt.Errorf("package name %q is reserved", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("package name %q must not contain path separators", name)
	}
	return nil
}
