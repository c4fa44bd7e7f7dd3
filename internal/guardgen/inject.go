// ABOUTME: Parameter discovery and guard statement injection on go/ast function declarations
// ABOUTME: Finds the context and env parameters and prepends the guard call to the body

package guardgen

import (
	"go/ast"
	"go/token"
	"strings"
)

// Args are the parameter names bound to the two roles.
type Args struct {
	Context      string
	Env          string
	EnvIsPointer bool
}

// Annotated reports whether decl carries the //<directive> comment.
func Annotated(decl *ast.FuncDecl, directive string) bool {
	if decl.Doc == nil {
		return false
	}
	for _, c := range decl.Doc.List {
		if strings.TrimRight(c.Text, " \t") == "//"+directive {
			return true
		}
	}
	return false
}

// FindArgs scans params in declaration order and returns the last parameter
// bound to each role. A role that was not found has an empty name.
func FindArgs(params *ast.FieldList, cfg Config) Args {
	var args Args
	if params == nil {
		return args
	}

	for _, field := range params.List {
		isContext := isContextType(field.Type, cfg.ContextType)
		isEnv, isPointer := isEnvType(field.Type, cfg.EnvType)
		if !isContext && !isEnv {
			continue
		}

		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			if isContext {
				args.Context = name.Name
			}
			if isEnv {
				args.Env = name.Name
				args.EnvIsPointer = isPointer
			}
		}
	}

	return args
}

// Inject prepends the guard call to decl's body. qualifier is the package
// name used to call the guard; empty calls it unqualified.
func Inject(fset *token.FileSet, decl *ast.FuncDecl, cfg Config, qualifier string) error {
	fail := func(role, shape string) error {
		e := &BuildConfigError{Func: decl.Name.Name, Role: role, Shape: shape}
		if fset != nil {
			e.Pos = fset.Position(decl.Pos())
		}
		return e
	}

	args := FindArgs(decl.Type.Params, cfg)
	if args.Context == "" {
		return fail(RoleContext, cfg.contextShape())
	}
	if args.Env == "" {
		return fail(RoleEnv, cfg.EnvType)
	}

	results := resultTypes(decl.Type.Results)
	if len(results) == 0 || !isIdent(results[len(results)-1], "error") {
		return fail(RoleResult, "error")
	}
	if decl.Body == nil {
		return fail(RoleBody, "")
	}

	if qualifier == "" && declaredNames(decl)[cfg.GuardFunc] {
		return fail(RoleShadow, cfg.GuardFunc)
	}

	stmt := guardStmt(args, cfg.GuardFunc, qualifier, results)
	decl.Body.List = append([]ast.Stmt{stmt}, decl.Body.List...)
	return nil
}

// guardStmt builds: if err := <guard>(ctx, &env); err != nil { return <zeros>, err }
func guardStmt(args Args, guardFunc, qualifier string, results []ast.Expr) ast.Stmt {
	var fun ast.Expr = ast.NewIdent(guardFunc)
	if qualifier != "" {
		fun = &ast.SelectorExpr{X: ast.NewIdent(qualifier), Sel: ast.NewIdent(guardFunc)}
	}

	var env ast.Expr = ast.NewIdent(args.Env)
	if !args.EnvIsPointer {
		env = &ast.UnaryExpr{Op: token.AND, X: env}
	}

	ret := make([]ast.Expr, 0, len(results))
	for _, typ := range results[:len(results)-1] {
		ret = append(ret, zeroValue(typ))
	}
	ret = append(ret, ast.NewIdent("err"))

	return &ast.IfStmt{
		Init: &ast.AssignStmt{
			Lhs: []ast.Expr{ast.NewIdent("err")},
			Tok: token.DEFINE,
			Rhs: []ast.Expr{&ast.CallExpr{
				Fun:  fun,
				Args: []ast.Expr{ast.NewIdent(args.Context), env},
			}},
		},
		Cond: &ast.BinaryExpr{X: ast.NewIdent("err"), Op: token.NEQ, Y: ast.NewIdent("nil")},
		Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ReturnStmt{Results: ret}}},
	}
}

// declaredNames returns the receiver, type parameter, parameter and result
// names of decl. They are in scope where the guard is injected.
func declaredNames(decl *ast.FuncDecl) map[string]bool {
	names := make(map[string]bool)
	for _, list := range []*ast.FieldList{decl.Recv, decl.Type.TypeParams, decl.Type.Params, decl.Type.Results} {
		if list == nil {
			continue
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				if name.Name != "_" {
					names[name.Name] = true
				}
			}
		}
	}
	return names
}

// isContextType matches *Name[...] and *pkg.Name[...].
func isContextType(expr ast.Expr, name string) bool {
	star, ok := expr.(*ast.StarExpr)
	if !ok {
		return false
	}

	var base ast.Expr
	switch t := star.X.(type) {
	case *ast.IndexExpr:
		base = t.X
	case *ast.IndexListExpr:
		base = t.X
	default:
		return false
	}
	return typeName(base) == name
}

// isEnvType matches Name, pkg.Name and their pointers.
func isEnvType(expr ast.Expr, name string) (match, pointer bool) {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
		pointer = true
	}
	switch t := expr.(type) {
	case *ast.IndexExpr:
		expr = t.X
	case *ast.IndexListExpr:
		expr = t.X
	}
	return typeName(expr) == name, pointer
}

func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

// resultTypes expands a result list so that (a, b int, err error) yields three types.
func resultTypes(results *ast.FieldList) []ast.Expr {
	if results == nil {
		return nil
	}

	var types []ast.Expr
	for _, field := range results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			types = append(types, field.Type)
		}
	}
	return types
}
