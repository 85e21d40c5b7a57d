package hclmanifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/packrun/internal/ctxlog"
	"github.com/vk/packrun/internal/manifest"
)

// Loader is the HCL implementation of the manifest.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of one manifest file.
type fileRoot struct {
	Packages []*hclPackage `hcl:"package,block"`
	Remain   hcl.Body      `hcl:",remain"`
}

// hclPackage is one `package "name" { ... }` block.
type hclPackage struct {
	Name         string     `hcl:"name,label"`
	DependsOn    []string   `hcl:"depends_on,optional"`
	DevDependsOn []string   `hcl:"dev_depends_on,optional"`
	PostInstall  string     `hcl:"post_install,optional"`
	Source       *hclSource `hcl:"source,block"`
}

// hclSource is the nested `source { ... }` block. Attributes beyond the
// well-known ones land in Remain and become installer options.
type hclSource struct {
	Type    string   `hcl:"type"`
	URL     string   `hcl:"url,optional"`
	Command string   `hcl:"command,optional"`
	Remain  hcl.Body `hcl:",remain"`
}

// Load parses every .hcl file under path (a file or a directory) and merges
// the discovered package blocks into one Manifest, preserving file order and
// in-file declaration order.
func (l *Loader) Load(ctx context.Context, path string) (*manifest.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findManifestFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	m := &manifest.Manifest{}
	seen := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
		}

		for _, block := range root.Packages {
			if prev, ok := seen[block.Name]; ok {
				return nil, fmt.Errorf("package %q declared in both %s and %s", block.Name, prev, file)
			}
			seen[block.Name] = file

			pkg, err := translatePackage(block)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			m.Packages = append(m.Packages, pkg)
		}
	}

	logger.Debug("Manifest loaded.", "packages", len(m.Packages))
	return m, nil
}

// translatePackage converts a decoded block into the format-agnostic model.
func translatePackage(block *hclPackage) (*manifest.Package, error) {
	pkg := &manifest.Package{
		Name:        block.Name,
		PostInstall: block.PostInstall,
	}
	for _, name := range block.DependsOn {
		pkg.Deps = append(pkg.Deps, manifest.Dependency{Name: name})
	}
	for _, name := range block.DevDependsOn {
		pkg.Deps = append(pkg.Deps, manifest.Dependency{Name: name, Dev: true})
	}

	if block.Source == nil {
		return nil, fmt.Errorf("package %q has no source block", block.Name)
	}
	options, err := translateOptions(block.Name, block.Source.Remain)
	if err != nil {
		return nil, err
	}
	pkg.Source = manifest.Source{
		Type:    block.Source.Type,
		URL:     block.Source.URL,
		Command: block.Source.Command,
		Options: options,
	}
	return pkg, nil
}

// translateOptions evaluates the leftover source attributes into a string
// map. Values must be constant and convertible to string.
func translateOptions(pkgName string, body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("package %q: invalid source options: %w", pkgName, diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	options := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("package %q: option %q is not a constant value: %w", pkgName, name, diags)
		}
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("package %q: option %q: %w", pkgName, name, err)
		}
		options[name] = strVal.AsString()
	}
	return options, nil
}
