// ABOUTME: File-level rewrite: finds annotated functions, injects guards, fixes imports
// ABOUTME: Produces gofmt-formatted source or fails without output

package guardgen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// RewriteFile injects the guard into every annotated function of file and
// returns the names of the rewritten functions. The first failure aborts the
// rewrite; file may then be partially modified and must be discarded.
func RewriteFile(fset *token.FileSet, file *ast.File, cfg Config) ([]string, error) {
	var targets []*ast.FuncDecl
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok && Annotated(fn, cfg.Directive) {
			targets = append(targets, fn)
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	qualifier, addImport := guardQualifier(file, targets, cfg)

	names := make([]string, 0, len(targets))
	for _, fn := range targets {
		if err := Inject(fset, fn, cfg, qualifier); err != nil {
			return nil, err
		}
		names = append(names, fn.Name.Name)
	}

	if addImport {
		if path.Base(cfg.GuardImport) == qualifier && importName(file, cfg.GuardImport) == "" {
			astutil.AddImport(fset, file, cfg.GuardImport)
		} else {
			astutil.AddNamedImport(fset, file, qualifier, cfg.GuardImport)
		}
	}

	return names, nil
}

// Source rewrites one Go source file. It returns the formatted result and the
// rewritten function names; when no function is annotated the source is
// returned unchanged.
func Source(filename string, src []byte, cfg Config) ([]byte, []string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	names, err := RewriteFile(fset, file, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return src, nil, nil
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, nil, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return buf.Bytes(), names, nil
}

// guardQualifier returns the package name to call the guard through and
// whether an import for it must be added. An existing import of the guard
// package is reused unless a guarded signature shadows its name; otherwise
// the configured package name is used, numbered past any name already taken
// by an import, a top-level declaration or a guarded signature. Empty means
// the guard lives in the file's own package.
func guardQualifier(file *ast.File, targets []*ast.FuncDecl, cfg Config) (string, bool) {
	if cfg.GuardImport == "" {
		return "", false
	}

	taken := make(map[string]bool)
	for _, fn := range targets {
		for name := range declaredNames(fn) {
			taken[name] = true
		}
	}

	if name := importName(file, cfg.GuardImport); name != "" && !taken[name] {
		return name, false
	}

	for _, spec := range file.Imports {
		if name := localName(spec); name != "" {
			taken[name] = true
		}
	}
	for name := range topLevelNames(file) {
		taken[name] = true
	}

	qualifier := cfg.GuardPackage
	for i := 2; taken[qualifier]; i++ {
		qualifier = cfg.GuardPackage + strconv.Itoa(i)
	}
	return qualifier, true
}

// localName returns the file-scope name an import declares, or empty for
// blank and dot imports. Unnamed imports are assumed to use the last path element.
func localName(spec *ast.ImportSpec) string {
	if spec.Name != nil {
		if spec.Name.Name == "_" || spec.Name.Name == "." {
			return ""
		}
		return spec.Name.Name
	}
	p, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return ""
	}
	return path.Base(p)
}

// topLevelNames returns the package-level identifiers declared in file.
func topLevelNames(file *ast.File) map[string]bool {
	names := make(map[string]bool)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names[d.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.ValueSpec:
					for _, n := range sp.Names {
						names[n.Name] = true
					}
				case *ast.TypeSpec:
					names[sp.Name.Name] = true
				}
			}
		}
	}
	return names
}

// importName returns the name under which file imports importPath, or empty
// if it is not imported. Unnamed imports are assumed to use the last path element.
func importName(file *ast.File, importPath string) string {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != importPath {
			continue
		}
		if spec.Name != nil && spec.Name.Name != "_" && spec.Name.Name != "." {
			return spec.Name.Name
		}
		if spec.Name == nil {
			return path.Base(p)
		}
	}
	return ""
}
