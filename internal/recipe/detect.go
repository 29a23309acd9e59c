package recipe

import (
	"regexp"

	"github.com/BirkeyCo/nixables/internal/generr"
	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"go.starlark.net/syntax"
)

// packageHeader matches the opening of a declarative package block. It is only
// used to pick which parser's diagnostics to report for a broken file.
var packageHeader = regexp.MustCompile(`(?m)^\s*package\s+"`)

// DetectSyntax decides which surface syntax src is written in.
//
// A file that parses as HCL and declares a top-level package block is
// declarative. Anything else that parses as Starlark is a formula. A file
// that parses as neither is malformed, and the error carries the diagnostics
// of the syntax the file most resembles.
func DetectSyntax(filename string, src []byte) (model.Syntax, error) {
	file, hclDiags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if !hclDiags.HasErrors() && hasPackageBlock(file) {
		return model.SyntaxDeclarative, nil
	}

	_, starErr := syntax.Parse(filename, src, 0)
	if starErr == nil {
		return model.SyntaxFormula, nil
	}

	if hclDiags.HasErrors() && packageHeader.Match(src) {
		return "", generr.Wrap(generr.ErrMalformedRecipe, hclDiags)
	}
	return "", generr.Wrap(generr.ErrMalformedRecipe, starErr)
}

func hasPackageBlock(file *hcl.File) bool {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return false
	}
	for _, block := range body.Blocks {
		if block.Type == packageBlock {
			return true
		}
	}
	return false
}
