package recipe

import (
	"context"
	"fmt"

	"github.com/BirkeyCo/nixables/internal/ctxlog"
	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/BirkeyCo/nixables/internal/hclutil"
	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

const (
	packageBlock        = "package"
	outputBlock         = "output"
	writeFileBlock      = "write_file"
	makeExecutableBlock = "make_executable"
	directoryBlock      = "directory"
)

var recipeFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: packageBlock, LabelNames: []string{"name"}},
	},
}

var packageBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "version"},
		{Name: "description"},
		{Name: "homepage"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: outputBlock},
	},
}

var outputBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: writeFileBlock, LabelNames: []string{"path"}},
		{Type: makeExecutableBlock, LabelNames: []string{"path"}},
		{Type: directoryBlock, LabelNames: []string{"path"}},
	},
}

var writeFileBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "content", Required: true},
	},
}

// Blocks that take no arguments still get a schema so stray attributes are
// rejected instead of ignored.
var emptyBodySchema = &hcl.BodySchema{}

// recipeFunctions is the complete function table visible to recipe
// expressions. Every entry is pure.
var recipeFunctions = map[string]function.Function{
	"chomp":      stdlib.ChompFunc,
	"concat":     stdlib.ConcatFunc,
	"format":     stdlib.FormatFunc,
	"indent":     stdlib.IndentFunc,
	"join":       stdlib.JoinFunc,
	"lower":      stdlib.LowerFunc,
	"replace":    stdlib.ReplaceFunc,
	"split":      stdlib.SplitFunc,
	"trimprefix": stdlib.TrimPrefixFunc,
	"trimspace":  stdlib.TrimSpaceFunc,
	"trimsuffix": stdlib.TrimSuffixFunc,
	"upper":      stdlib.UpperFunc,
}

// DeclarativeInterpreter evaluates HCL package recipes.
type DeclarativeInterpreter struct{}

// NewDeclarativeInterpreter creates a new DeclarativeInterpreter.
func NewDeclarativeInterpreter() *DeclarativeInterpreter {
	return &DeclarativeInterpreter{}
}

// Interpret implements SyntaxInterpreter.
func (d *DeclarativeInterpreter) Interpret(ctx context.Context, src *Source) (*model.PackageSpec, error) {
	ctx, logger := ctxlog.With(ctx, "recipe", src.Path)
	logger.Debug("Interpreting declarative recipe.")

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src.Data, src.Path)
	if diags.HasErrors() {
		return nil, generr.Wrap(generr.ErrMalformedRecipe, diags)
	}

	content, diags := file.Body.Content(recipeFileSchema)
	if diags.HasErrors() {
		return nil, generr.Wrap(generr.ErrMalformedRecipe, diags)
	}

	block, diags := hclutil.FindUniqueBlock(content.Blocks, packageBlock)
	if diags.HasErrors() {
		return nil, generr.Wrap(generr.ErrMalformedRecipe, diags)
	}
	if block == nil {
		return nil, generr.New(generr.ErrMalformedRecipe, "%s: no %q block", src.Path, packageBlock)
	}

	spec, diags := d.decodePackage(ctx, block)
	if diags.HasErrors() {
		return nil, generr.Wrap(generr.ErrMalformedRecipe, diags)
	}
	return spec, nil
}

// decodePackage reads one package block into a PackageSpec.
func (d *DeclarativeInterpreter) decodePackage(ctx context.Context, block *hcl.Block) (*model.PackageSpec, hcl.Diagnostics) {
	name := block.Labels[0]
	if err := validatePackageName(name); err != nil {
		return nil, hcl.Diagnostics{labelDiagnostic(block, "Invalid package name", err)}
	}

	logger := ctxlog.FromContext(ctx).With("package", name)
	logger.Debug("Decoding package block.")

	body, diags := block.Body.Content(packageBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	evalCtx := newEvalContext(name, "")

	version, moreDiags := hclutil.StringAttr(body.Attributes, "version", evalCtx)
	diags = append(diags, moreDiags...)
	if moreDiags.HasErrors() {
		return nil, diags
	}
	evalCtx = newEvalContext(name, version)

	description, moreDiags := hclutil.StringAttr(body.Attributes, "description", evalCtx)
	diags = append(diags, moreDiags...)
	homepage, moreDiags := hclutil.StringAttr(body.Attributes, "homepage", evalCtx)
	diags = append(diags, moreDiags...)

	output, moreDiags := hclutil.FindUniqueBlock(body.Blocks, outputBlock)
	diags = append(diags, moreDiags...)
	if diags.HasErrors() {
		return nil, diags
	}

	var actions []model.Action
	if output != nil {
		actions, moreDiags = d.decodeOutput(ctx, output, evalCtx)
		diags = append(diags, moreDiags...)
		if diags.HasErrors() {
			return nil, diags
		}
	} else {
		logger.Debug("Package has no output block, recording no actions.")
	}

	spec := model.NewPackageSpec(name, version, model.SyntaxDeclarative, actions)
	spec.Description = description
	spec.Homepage = homepage
	return spec, diags
}

// decodeOutput records the output block's children as actions, in source
// order.
func (d *DeclarativeInterpreter) decodeOutput(ctx context.Context, output *hcl.Block, evalCtx *hcl.EvalContext) ([]model.Action, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)

	content, diags := output.Body.Content(outputBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	actions := make([]model.Action, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		path, err := cleanRelPath(block.Labels[0])
		if err != nil {
			return nil, append(diags, labelDiagnostic(block, "Invalid path", err))
		}

		var action model.Action
		switch block.Type {
		case writeFileBlock:
			attrs, moreDiags := block.Body.Content(writeFileBodySchema)
			diags = append(diags, moreDiags...)
			if moreDiags.HasErrors() {
				return nil, diags
			}
			text, moreDiags := hclutil.StringAttr(attrs.Attributes, "content", evalCtx)
			diags = append(diags, moreDiags...)
			if moreDiags.HasErrors() {
				return nil, diags
			}
			action = model.NewWriteFile(path, []byte(text))

		case makeExecutableBlock, directoryBlock:
			_, moreDiags := block.Body.Content(emptyBodySchema)
			diags = append(diags, moreDiags...)
			if moreDiags.HasErrors() {
				return nil, diags
			}
			if block.Type == makeExecutableBlock {
				action = model.NewMakeExecutable(path)
			} else {
				action = model.NewMakeDirectory(path)
			}
		}

		logger.Debug("Recorded action.", "kind", action.Kind(), "path", path)
		actions = append(actions, action)
	}
	return actions, diags
}

// newEvalContext exposes the package metadata as the `package` object next
// to the recipe function table.
func newEvalContext(name, version string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			packageBlock: cty.ObjectVal(map[string]cty.Value{
				"name":    cty.StringVal(name),
				"version": cty.StringVal(version),
			}),
		},
		Functions: recipeFunctions,
	}
}

func labelDiagnostic(block *hcl.Block, summary string, err error) *hcl.Diagnostic {
	subject := block.DefRange
	if len(block.LabelRanges) > 0 {
		subject = block.LabelRanges[0]
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf("%s.", err),
		Subject:  &subject,
	}
}
