// Package hclutil holds small helpers shared by code that reads HCL bodies.
package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type == name {
			if found != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + name + "\" block",
					Detail:   "Only one \"" + name + "\" block is allowed.",
					Subject:  &block.DefRange,
				})
			}
			found = block
		}
	}

	return found, diags
}

// StringAttr evaluates an attribute and converts the result to a Go string.
// A missing attribute yields the empty string. Null and unknown values, and
// values that cannot be converted to a string, are reported as diagnostics.
func StringAttr(attrs hcl.Attributes, name string, evalCtx *hcl.EvalContext) (string, hcl.Diagnostics) {
	attr, ok := attrs[name]
	if !ok {
		return "", nil
	}

	val, diags := attr.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}

	if val.IsNull() || !val.IsWhollyKnown() {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("The %q attribute must have a known, non-null value.", name),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}

	strVal, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Incorrect attribute value type",
			Detail:   fmt.Sprintf("The %q attribute must be a string: %s.", name, err),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}

	return strVal.AsString(), diags
}
