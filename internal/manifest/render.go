package manifest

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/BirkeyCo/nixables/internal/model"
	"github.com/BirkeyCo/nixables/internal/translate"
)

const (
	// System is the only platform flakes are generated for.
	System = "x86_64-linux"
	// NixpkgsURL is the nixpkgs input every flake pins.
	NixpkgsURL = "github:NixOS/nixpkgs/nixos-unstable"

	OriginRecipe  = "recipe"
	OriginFormula = "Homebrew-style formula"

	scriptIndent = "        "
)

//go:embed flake.nix.tmpl
var flakeTemplateText string

var flakeTemplate = template.Must(template.New("flake.nix").Funcs(template.FuncMap{
	"nixString": nixString,
	"attrName":  attrName,
	"script":    indentedScript,
}).Parse(flakeTemplateText))

// nixIdent matches names that can be used as a bare Nix attribute name.
var nixIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'-]*$`)

// Params is everything a flake.nix is rendered from.
type Params struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Script      []string
	SourceDir   string
	Origin      string
	System      string
	NixpkgsURL  string
}

// NewParams collects the render parameters of a translated package.
func NewParams(spec *model.PackageSpec, res *translate.Result) Params {
	return Params{
		Name:        spec.Name,
		Version:     spec.Version,
		Description: spec.Description,
		Homepage:    spec.Homepage,
		Script:      res.Script,
		SourceDir:   res.SourceDir,
		Origin:      OriginOf(spec.Syntax),
	}
}

// OriginOf returns the label naming which kind of recipe a flake came from.
func OriginOf(syntax model.Syntax) string {
	if syntax == model.SyntaxFormula {
		return OriginFormula
	}
	return OriginRecipe
}

// Render produces the flake.nix text for p.
func Render(p Params) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("rendering flake: package name is empty")
	}
	if p.SourceDir == "" {
		return "", fmt.Errorf("rendering flake for %q: source directory is empty", p.Name)
	}
	if p.Origin == "" {
		p.Origin = OriginRecipe
	}
	if p.System == "" {
		p.System = System
	}
	if p.NixpkgsURL == "" {
		p.NixpkgsURL = NixpkgsURL
	}

	var buf bytes.Buffer
	if err := flakeTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("rendering flake for %q: %w", p.Name, err)
	}
	return buf.String(), nil
}

// nixString quotes s as a Nix double-quoted string.
func nixString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"${", `\${`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + r.Replace(s) + `"`
}

// attrName returns name as a Nix attribute path element, quoting it when it
// is not a plain identifier.
func attrName(name string) string {
	if nixIdent.MatchString(name) {
		return name
	}
	return nixString(name)
}

// escapeIndented escapes s for use inside a Nix indented string ('' ... '').
func escapeIndented(s string) string {
	s = strings.ReplaceAll(s, "''", "'''")
	return strings.ReplaceAll(s, "${", "''${")
}

// indentedScript lays out the install script inside the installPhase
// literal. Every physical line gets the same indentation so Nix strips it
// uniformly; blank lines stay blank.
func indentedScript(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		for _, physical := range strings.Split(line, "\n") {
			if strings.TrimSpace(physical) != "" {
				b.WriteString(scriptIndent)
				b.WriteString(escapeIndented(physical))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
