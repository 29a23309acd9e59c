package recipe

import (
	"context"
	"fmt"

	"github.com/BirkeyCo/nixables/internal/ctxlog"
	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/BirkeyCo/nixables/internal/model"
)

// Source is the raw text of a recipe together with its detected syntax.
type Source struct {
	Path   string
	Data   []byte
	Syntax model.Syntax
}

// SyntaxInterpreter is implemented by each recipe surface syntax.
type SyntaxInterpreter interface {
	// Interpret evaluates the recipe source and returns the recorded package.
	Interpret(ctx context.Context, src *Source) (*model.PackageSpec, error)
}

// Interpreter loads recipes through the filesystem collaborator and hands
// them to the interpreter matching their syntax.
type Interpreter struct {
	fs           fsutil.FS
	interpreters map[model.Syntax]SyntaxInterpreter
}

// NewInterpreter creates an Interpreter with both built-in syntaxes.
func NewInterpreter(fs fsutil.FS) *Interpreter {
	return &Interpreter{
		fs: fs,
		interpreters: map[model.Syntax]SyntaxInterpreter{
			model.SyntaxDeclarative: NewDeclarativeInterpreter(),
			model.SyntaxFormula:     NewFormulaInterpreter(),
		},
	}
}

// Load reads the recipe at path and detects its syntax.
func (i *Interpreter) Load(ctx context.Context, path string) (*Source, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading recipe.", "path", path)

	if !i.fs.Exists(path) {
		return nil, generr.New(generr.ErrRecipeNotFound, "%s", path)
	}
	data, err := i.fs.Read(path)
	if err != nil {
		return nil, generr.Wrapf(generr.ErrRecipeNotFound, err, "reading %s", path)
	}

	syntax, err := DetectSyntax(path, data)
	if err != nil {
		return nil, err
	}
	logger.Debug("Recipe syntax detected.", "path", path, "syntax", syntax)

	return &Source{Path: path, Data: data, Syntax: syntax}, nil
}

// Interpret loads and evaluates the recipe at path.
func (i *Interpreter) Interpret(ctx context.Context, path string) (*model.PackageSpec, error) {
	src, err := i.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	interp, ok := i.interpreters[src.Syntax]
	if !ok {
		return nil, fmt.Errorf("no interpreter registered for %s recipes", src.Syntax)
	}

	spec, err := interp.Interpret(ctx, src)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Recipe interpreted.",
		"path", path,
		"package", spec.Name,
		"version", spec.Version,
		"actions", len(spec.Actions),
	)
	return spec, nil
}
