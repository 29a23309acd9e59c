package generate

import (
	"context"
	"path"
	"path/filepath"

	"github.com/BirkeyCo/nixables/internal/ctxlog"
	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/BirkeyCo/nixables/internal/manifest"
	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/BirkeyCo/nixables/internal/recipe"
	"github.com/BirkeyCo/nixables/internal/translate"
	"github.com/opencontainers/go-digest"
)

// ManifestFile is the name of the rendered flake in each package directory.
const ManifestFile = "flake.nix"

// DefaultOutputDir is the output root used when none is configured.
const DefaultOutputDir = "flakes"

// Result describes the output of one successful generation.
type Result struct {
	Package      *model.PackageSpec
	ManifestPath string
	SourceDir    string
	StagedFiles  []string
	// Digest is the sha256 digest of the manifest text.
	Digest digest.Digest
}

// Generator runs recipes through the pipeline and writes their flakes.
type Generator struct {
	fs      fsutil.FS
	interp  *recipe.Interpreter
	outRoot string
	status  *Status
}

// NewGenerator creates a Generator writing below outRoot. A nil status
// disables progress lines.
func NewGenerator(fs fsutil.FS, outRoot string, status *Status) *Generator {
	if outRoot == "" {
		outRoot = DefaultOutputDir
	}
	return &Generator{
		fs:      fs,
		interp:  recipe.NewInterpreter(fs),
		outRoot: outRoot,
		status:  status,
	}
}

// Generate runs the recipe at recipePath. The first error aborts the run;
// whatever was already written is left in place.
func (g *Generator) Generate(ctx context.Context, recipePath string) (*Result, error) {
	ctx, logger := ctxlog.With(ctx, "recipe", recipePath)
	logger.Info("Generating flake.")

	spec, err := g.interp.Interpret(ctx, recipePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := translate.Translate(spec)
	if err != nil {
		return nil, err
	}
	logger.Debug("Recipe translated.",
		"package", spec.Name,
		"staged_files", len(res.Files),
		"script_lines", len(res.Script),
		"source_dir", res.SourceDir,
	)

	flakeDir := filepath.Join(g.outRoot, spec.Name)
	srcDir := filepath.Join(flakeDir, res.SourceDir)

	for _, dir := range []string{translate.StagedSourceDir, translate.EmptySourceDir} {
		stale := filepath.Join(flakeDir, dir)
		if err := g.fs.RemoveAll(stale); err != nil {
			return nil, generr.Wrapf(generr.ErrFilesystem, err, "clearing %s", stale)
		}
	}
	if err := g.fs.MakeDirs(srcDir); err != nil {
		return nil, generr.Wrapf(generr.ErrFilesystem, err, "creating %s", srcDir)
	}

	staged := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dst := filepath.Join(srcDir, filepath.FromSlash(path.Clean(f.Path)))
		if err := g.fs.Write(dst, f.Content); err != nil {
			return nil, generr.Wrapf(generr.ErrFilesystem, err, "staging %s", dst)
		}
		logger.Debug("Staged file.", "path", dst, "bytes", len(f.Content))
		staged = append(staged, dst)
	}

	text, err := manifest.Render(manifest.NewParams(spec, res))
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(flakeDir, ManifestFile)
	if err := g.fs.Write(manifestPath, []byte(text)); err != nil {
		return nil, generr.Wrapf(generr.ErrFilesystem, err, "writing %s", manifestPath)
	}

	result := &Result{
		Package:      spec,
		ManifestPath: manifestPath,
		SourceDir:    srcDir,
		StagedFiles:  staged,
		Digest:       digest.FromString(text),
	}
	logger.Info("Flake generated.", "package", spec.Name, "manifest", manifestPath, "digest", result.Digest)

	g.status.Generated(spec.Name, manifestPath)
	g.status.SourceDir(srcDir, len(staged))
	return result, nil
}

// GenerateAll generates p if it is a file. If p is a directory, every
// regular, non-hidden file directly inside it is generated in lexical order,
// stopping at the first failure.
func (g *Generator) GenerateAll(ctx context.Context, p string) ([]*Result, error) {
	if !g.fs.IsDir(p) {
		res, err := g.Generate(ctx, p)
		if err != nil {
			return nil, err
		}
		return []*Result{res}, nil
	}

	files, err := g.fs.ListFiles(p)
	if err != nil {
		return nil, generr.Wrapf(generr.ErrFilesystem, err, "listing %s", p)
	}
	if len(files) == 0 {
		return nil, generr.New(generr.ErrRecipeNotFound, "no recipes in %s", p)
	}
	ctxlog.FromContext(ctx).Debug("Generating recipe directory.", "dir", p, "recipes", len(files))

	results := make([]*Result, 0, len(files))
	for _, f := range files {
		res, err := g.Generate(ctx, f)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
