package translate

import (
	"fmt"
	"path"
	"strings"

	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/BirkeyCo/nixables/internal/shellquote"
)

const (
	// StagedSourceDir holds the files written by a recipe.
	StagedSourceDir = "src_files"
	// EmptySourceDir is the source of flakes that stage nothing.
	EmptySourceDir = "empty_src"

	binDir = "bin"
)

// Result is the outcome of translating one package.
type Result struct {
	// Files to stage, in first-write order.
	Files []model.StagedFile
	// Script is the install phase, one shell line per entry.
	Script []string
	// SourceDir is the directory, relative to the flake, used as the
	// derivation source.
	SourceDir string
}

// Translate converts spec's actions into staged files and install-phase
// lines. Actions are processed in order and the first error aborts the whole
// translation, so no partial result is ever returned.
func Translate(spec *model.PackageSpec) (*Result, error) {
	t := &translator{
		declarative: spec.Syntax == model.SyntaxDeclarative,
		index:       make(map[string]int),
	}
	if t.declarative {
		t.emit("mkdir -p %s", installPath(binDir))
	}

	for i, action := range spec.Actions {
		if err := t.apply(action); err != nil {
			return nil, fmt.Errorf("action %d of %q: %w", i, spec.Name, err)
		}
	}

	res := &Result{
		Files:     t.files,
		Script:    t.script,
		SourceDir: EmptySourceDir,
	}
	if t.declarative || len(t.files) > 0 {
		res.SourceDir = StagedSourceDir
	}
	return res, nil
}

type translator struct {
	declarative bool
	files       []model.StagedFile
	index       map[string]int
	script      []string
}

func (t *translator) apply(action model.Action) error {
	switch a := action.(type) {
	case *model.WriteFile:
		t.stage(a.Path, a.Content)
		if t.declarative {
			src := shellquote.Quote(a.Path)
			if isBinPath(a.Path) {
				t.emit("cp -r %s %s/", src, installPath(binDir))
			} else {
				t.emit("cp -r %s %s/", src, model.InstallRoot)
			}
		}

	case *model.MakeExecutable:
		if _, ok := t.index[a.Path]; !ok {
			return generr.New(generr.ErrDanglingExecutableTarget, "%s was never written", a.Path)
		}
		t.emit("chmod +x %s", installedTarget(a.Path))

	case *model.MakeDirectory:
		t.emit("mkdir -p %s", installPath(a.Path))

	case *model.RunCommand:
		argv := make([]string, len(a.Argv))
		for i, tok := range a.Argv {
			argv[i] = strings.ReplaceAll(tok, model.PrefixPlaceholder, model.InstallRoot)
		}
		t.script = append(t.script, strings.Join(argv, " "))

	default:
		return generr.New(generr.ErrUnsupportedAction, "%T (kind %q)", action, kindOf(action))
	}
	return nil
}

// stage records a file. A later write to the same path replaces the content
// but keeps the position of the first write.
func (t *translator) stage(p string, content []byte) {
	if i, ok := t.index[p]; ok {
		t.files[i].Content = content
		return
	}
	t.index[p] = len(t.files)
	t.files = append(t.files, model.StagedFile{Path: p, Content: content})
}

func (t *translator) emit(format string, args ...any) {
	t.script = append(t.script, fmt.Sprintf(format, args...))
}

// installedTarget is where `cp -r` puts a staged path: directly under the
// copy destination, keeping only the last path element.
func installedTarget(p string) string {
	if isBinPath(p) {
		return installPath(binDir, path.Base(p))
	}
	return installPath(path.Base(p))
}

func isBinPath(p string) bool {
	return strings.HasPrefix(p, binDir+"/")
}

// installPath joins elem below the install root. The relative part is shell
// quoted where needed; the root reference stays bare so the shell expands it.
func installPath(elem ...string) string {
	return model.InstallRoot + "/" + shellquote.Quote(path.Join(elem...))
}

func kindOf(action model.Action) string {
	if action == nil {
		return "<nil>"
	}
	return action.Kind().String()
}
