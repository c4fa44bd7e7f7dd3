// ABOUTME: Zero-value expressions for the results of an injected early return
// ABOUTME: Copies result type expressions without positions so go/format lays them out cleanly

package guardgen

import (
	"go/ast"
	"go/token"
)

var numericTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
}

// zeroValue returns an expression for the zero value of typ. Types it cannot
// classify from syntax alone use *new(T), which is valid for every T.
func zeroValue(typ ast.Expr) ast.Expr {
	switch t := typ.(type) {
	case *ast.Ident:
		switch {
		case t.Name == "bool":
			return ast.NewIdent("false")
		case t.Name == "string":
			return &ast.BasicLit{Kind: token.STRING, Value: `""`}
		case numericTypes[t.Name]:
			return &ast.BasicLit{Kind: token.INT, Value: "0"}
		case t.Name == "error" || t.Name == "any":
			return ast.NewIdent("nil")
		}
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return ast.NewIdent("nil")
	case *ast.ArrayType:
		if t.Len == nil {
			return ast.NewIdent("nil")
		}
	}

	return &ast.StarExpr{X: &ast.CallExpr{
		Fun:  ast.NewIdent("new"),
		Args: []ast.Expr{cloneType(typ)},
	}}
}

// cloneType deep-copies a type expression with every position cleared.
// Node kinds that never reach *new(T) are returned as-is.
func cloneType(expr ast.Expr) ast.Expr {
	switch t := expr.(type) {
	case *ast.Ident:
		return ast.NewIdent(t.Name)
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{X: cloneType(t.X), Sel: ast.NewIdent(t.Sel.Name)}
	case *ast.StarExpr:
		return &ast.StarExpr{X: cloneType(t.X)}
	case *ast.ParenExpr:
		return &ast.ParenExpr{X: cloneType(t.X)}
	case *ast.BasicLit:
		return &ast.BasicLit{Kind: t.Kind, Value: t.Value}
	case *ast.ArrayType:
		var n ast.Expr
		if t.Len != nil {
			n = cloneType(t.Len)
		}
		return &ast.ArrayType{Len: n, Elt: cloneType(t.Elt)}
	case *ast.MapType:
		return &ast.MapType{Key: cloneType(t.Key), Value: cloneType(t.Value)}
	case *ast.ChanType:
		return &ast.ChanType{Dir: t.Dir, Value: cloneType(t.Value)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{X: cloneType(t.X), Index: cloneType(t.Index)}
	case *ast.IndexListExpr:
		indices := make([]ast.Expr, len(t.Indices))
		for i, idx := range t.Indices {
			indices[i] = cloneType(idx)
		}
		return &ast.IndexListExpr{X: cloneType(t.X), Indices: indices}
	case *ast.StructType:
		return &ast.StructType{Fields: cloneFields(t.Fields)}
	}
	return expr
}

func cloneFields(fields *ast.FieldList) *ast.FieldList {
	if fields == nil {
		return &ast.FieldList{}
	}

	out := &ast.FieldList{List: make([]*ast.Field, len(fields.List))}
	for i, f := range fields.List {
		names := make([]*ast.Ident, len(f.Names))
		for j, n := range f.Names {
			names[j] = ast.NewIdent(n.Name)
		}
		var tag *ast.BasicLit
		if f.Tag != nil {
			tag = &ast.BasicLit{Kind: f.Tag.Kind, Value: f.Tag.Value}
		}
		out.List[i] = &ast.Field{Names: names, Type: cloneType(f.Type), Tag: tag}
	}
	return out
}
