package gen

import (
	"bytes"
	"fmt"
	"go/format"

	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/resolve"
)

// RuntimePkg is the import path of the runtime helpers referenced by
// generated code.
const RuntimePkg = "github.com/expunge-go/expunge"

// Config holds configuration for code generation.
type Config struct {
	// Filename is the base name of the generated file in each package.
	Filename string
	// Header is the first line of every generated file.
	Header string
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Filename: "expunge_gen.go",
		Header:   "// Code generated by expungegen. DO NOT EDIT.",
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config Config
}

// NewGenerator creates a new Generator with the given configuration,
// filling in defaults for unset fields.
func NewGenerator(config Config) *Generator {
	def := DefaultConfig()

	if config.Filename == "" {
		config.Filename = def.Filename
	}

	if config.Header == "" {
		config.Header = def.Header
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the package directory the file belongs in.
	Dir string
	// PkgPath is the import path of the package.
	PkgPath string
	// Filename is the base name of the file (e.g., "expunge_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate produces one file per package that has planned types. Files
// come back in first-appearance order of their packages in the plan.
func (g *Generator) Generate(p *resolve.Plan) ([]GeneratedFile, error) {
	byPkg := make(map[string][]*resolve.TypePlan)

	var order []string

	for _, tp := range p.Types {
		pkg := tp.Type.ID.PkgPath
		if _, ok := byPkg[pkg]; !ok {
			order = append(order, pkg)
		}

		byPkg[pkg] = append(byPkg[pkg], tp)
	}

	var files []GeneratedFile

	for _, pkg := range order {
		file, err := g.generatePackage(p, pkg, byPkg[pkg])
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", pkg, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// generatePackage renders and formats the file for one package.
func (g *Generator) generatePackage(p *resolve.Plan, pkgPath string, plans []*resolve.TypePlan) (*GeneratedFile, error) {
	b := newFileBuilder()

	for _, tp := range plans {
		if tp.Type.Kind == analyze.KindSum {
			b.sumDecls(tp)
			continue
		}

		b.structDecls(tp)
	}

	data := &fileData{
		Header:      g.config.Header,
		PackageName: packageName(p, pkgPath, plans),
		Imports:     b.importLines(),
		Decls:       b.decls,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	dir := packageDir(p, pkgPath)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code around for debugging.
		if dir != "" {
			_ = writeDebugUnformatted(dir, g.config.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Dir:      dir,
			PkgPath:  pkgPath,
			Filename: g.config.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Dir:      dir,
		PkgPath:  pkgPath,
		Filename: g.config.Filename,
		Content:  formatted,
	}, nil
}

// packageName resolves the package name for pkgPath, preferring the
// loaded package info over what the plans carry.
func packageName(p *resolve.Plan, pkgPath string, plans []*resolve.TypePlan) string {
	if p.Graph != nil {
		if info, ok := p.Graph.Packages[pkgPath]; ok && info.Name != "" {
			return info.Name
		}
	}

	for _, tp := range plans {
		if tp.Type.PkgName != "" {
			return tp.Type.PkgName
		}
	}

	return "main"
}

// packageDir resolves the on-disk directory for pkgPath, if known.
func packageDir(p *resolve.Plan, pkgPath string) string {
	if p.Graph != nil {
		if info, ok := p.Graph.Packages[pkgPath]; ok {
			return info.Dir
		}
	}

	return ""
}
