package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/BirkeyCo/nixables/internal/ctxlog"
	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/google/shlex"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

const (
	formulaBuiltin = "formula"
	systemBuiltin  = "system"

	// maxExecutionSteps bounds both the top-level evaluation of a formula
	// file and each install call.
	maxExecutionSteps = 1_000_000

	loggerLocal = "nixables.logger"
)

// FormulaMeta is the configuration a formula registers with.
type FormulaMeta struct {
	Name     string
	Desc     string
	Homepage string
	Version  string
}

// Formula is one unit registered by a `formula(...)` call. Its install
// function is not run until Install is called.
type Formula struct {
	Meta FormulaMeta

	path      string
	install   starlark.Callable
	actions   []model.Action
	installed bool
}

// Actions returns the actions recorded so far. It is empty until Install has
// run.
func (f *Formula) Actions() []model.Action {
	return f.actions
}

// Install runs the formula's install function once, recording every
// `system` call as a RunCommand action.
func (f *Formula) Install(ctx context.Context) error {
	if f.installed {
		return fmt.Errorf("formula %q is already installed", f.Meta.Name)
	}
	f.installed = true

	ctx, logger := ctxlog.With(ctx, "formula", f.Meta.Name)
	logger.Debug("Running formula install.")

	thread := newThread(ctx, f.path+":install")
	installCtx := starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"prefix":      starlark.String(model.PrefixPlaceholder),
		"bin":         prefixed("bin"),
		"lib":         prefixed("lib"),
		"libexec":     prefixed("libexec"),
		"include":     prefixed("include"),
		"share":       prefixed("share"),
		"man":         prefixed("share/man"),
		"etc":         prefixed("etc"),
		systemBuiltin: starlark.NewBuiltin(systemBuiltin, f.system),
	})
	installCtx.Freeze()

	if _, err := starlark.Call(thread, f.install, starlark.Tuple{installCtx}, nil); err != nil {
		f.actions = nil
		gerr := generr.Wrapf(generr.ErrInstallExecution, err, "formula %q", f.Meta.Name)
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			gerr = gerr.WithTrace(evalErr.Backtrace())
		}
		return gerr
	}

	logger.Debug("Formula install finished.", "actions", len(f.actions))
	return nil
}

// Spec returns the package described by the formula and its recorded
// actions.
func (f *Formula) Spec() *model.PackageSpec {
	spec := model.NewPackageSpec(f.Meta.Name, f.Meta.Version, model.SyntaxFormula, f.actions)
	spec.Description = f.Meta.Desc
	spec.Homepage = f.Meta.Homepage
	return spec
}

// system records its arguments as one command. It never runs anything.
//
// A single argument is taken as a complete shell line, the way a shell would
// receive it. Several arguments are taken as an argument vector and quoted
// where needed.
func (f *Formula) system(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword argument %q", b.Name(), kwargs[0][0])
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing command", b.Name())
	}

	var argv []string
	if len(args) == 1 {
		line := toGoString(args[0])
		tokens, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("%s: empty command", b.Name())
		}
		argv = []string{line}
	} else {
		argv = make([]string, 0, len(args))
		for _, arg := range args {
			argv = append(argv, quoteToken(toGoString(arg)))
		}
	}

	threadLogger(thread).Debug("Recorded command.", "argv", argv)
	f.actions = append(f.actions, model.NewRunCommand(argv...))
	return starlark.True, nil
}

// FormulaInterpreter evaluates Starlark formula recipes.
type FormulaInterpreter struct{}

// NewFormulaInterpreter creates a new FormulaInterpreter.
func NewFormulaInterpreter() *FormulaInterpreter {
	return &FormulaInterpreter{}
}

// Load executes the formula file and returns every unit it registered, in
// registration order. Install functions are not called.
func (fi *FormulaInterpreter) Load(ctx context.Context, src *Source) ([]*Formula, error) {
	ctx, logger := ctxlog.With(ctx, "recipe", src.Path)
	logger.Debug("Evaluating formula recipe.")

	var formulas []*Formula
	register := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name, desc, homepage, version string
			install                       starlark.Callable
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &name,
			"install", &install,
			"desc?", &desc,
			"homepage?", &homepage,
			"version?", &version,
		); err != nil {
			return nil, err
		}
		if err := validatePackageName(name); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}

		formulas = append(formulas, &Formula{
			Meta:    FormulaMeta{Name: name, Desc: desc, Homepage: homepage, Version: version},
			path:    src.Path,
			install: install,
		})
		logger.Debug("Formula registered.", "name", name, "version", version)
		return starlark.None, nil
	}

	predeclared := starlark.StringDict{
		formulaBuiltin: starlark.NewBuiltin(formulaBuiltin, register),
	}

	thread := newThread(ctx, src.Path)
	if _, err := starlark.ExecFile(thread, src.Path, src.Data, predeclared); err != nil {
		gerr := generr.Wrap(generr.ErrMalformedRecipe, err)
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			gerr = gerr.WithTrace(evalErr.Backtrace())
		}
		return nil, gerr
	}
	return formulas, nil
}

// Interpret implements SyntaxInterpreter. The file must register exactly one
// formula, which is then installed.
func (fi *FormulaInterpreter) Interpret(ctx context.Context, src *Source) (*model.PackageSpec, error) {
	formulas, err := fi.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	switch len(formulas) {
	case 0:
		return nil, generr.New(generr.ErrNoFormulaFound, "%s: no %s(...) call", src.Path, formulaBuiltin)
	case 1:
	default:
		names := make([]string, len(formulas))
		for i, f := range formulas {
			names[i] = f.Meta.Name
		}
		return nil, generr.New(generr.ErrAmbiguousFormula, "%s: %d formulas registered %q", src.Path, len(formulas), names)
	}

	f := formulas[0]
	if err := f.Install(ctx); err != nil {
		return nil, err
	}
	return f.Spec(), nil
}

func newThread(ctx context.Context, name string) *starlark.Thread {
	logger := ctxlog.FromContext(ctx)
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Debug("Formula print.", "msg", msg)
		},
	}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	thread.SetLocal(loggerLocal, logger)
	return thread
}

func threadLogger(thread *starlark.Thread) *slog.Logger {
	if logger, ok := thread.Local(loggerLocal).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func prefixed(dir string) starlark.String {
	return starlark.String(path.Join(model.PrefixPlaceholder, dir))
}

// toGoString converts a Starlark value the way str() does.
func toGoString(v starlark.Value) string {
	if s, ok := starlark.AsString(v); ok {
		return s
	}
	return v.String()
}
