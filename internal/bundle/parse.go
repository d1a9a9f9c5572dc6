package bundle

import (
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"strings"

	"github.com/pkg/errors"

	"speclock/internal/contract"
)

var binaryOps = map[token.Token]contract.BinaryOp{
	token.ADD:  contract.OpAdd,
	token.SUB:  contract.OpSub,
	token.MUL:  contract.OpMul,
	token.QUO:  contract.OpDiv,
	token.REM:  contract.OpRem,
	token.SHR:  contract.OpShr,
	token.SHL:  contract.OpShl,
	token.EQL:  contract.OpEq,
	token.NEQ:  contract.OpNe,
	token.LSS:  contract.OpLt,
	token.LEQ:  contract.OpLe,
	token.GTR:  contract.OpGt,
	token.GEQ:  contract.OpGe,
	token.LAND: contract.OpAnd,
	token.LOR:  contract.OpOr,
	token.AND:  contract.OpBitAnd,
	token.OR:   contract.OpBitOr,
	token.XOR:  contract.OpBitXor,
}

var unaryOps = map[token.Token]contract.UnaryOp{
	token.NOT: contract.OpNot,
	token.SUB: contract.OpNeg,
	token.AND: contract.OpRef,
}

// ParseExpr parses a condition written in Go syntax. v.len() is a method call
// and pkg.NAME a qualified name, written pkg::NAME in the contract model.
func ParseExpr(src string) (contract.Expr, error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", src)
	}
	return convertExpr(node)
}

// ParseBody parses a function body in Go syntax. A final top level return
// becomes the tail expression of the block.
func ParseBody(src string) (*contract.Block, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "body.go", "package body\nfunc _() {\n"+src+"\n}\n", 0)
	if err != nil {
		return nil, errors.Wrap(err, "parse body")
	}
	fn := file.Decls[0].(*ast.FuncDecl)
	block, err := convertBlock(fset, fn.Body.List)
	if err != nil {
		return nil, err
	}
	if n := len(block.Stmts); n > 0 {
		if ret, ok := block.Stmts[n-1].(*contract.Return); ok && ret.Value != nil {
			block.Stmts = block.Stmts[:n-1]
			block.Tail = ret.Value
		}
	}
	return block, nil
}

func convertBlock(fset *token.FileSet, list []ast.Stmt) (*contract.Block, error) {
	block := &contract.Block{}
	for _, stmt := range list {
		s, err := convertStmt(fset, stmt)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", fset.Position(stmt.Pos()).Line-2)
		}
		if s != nil {
			block.Stmts = append(block.Stmts, s)
		}
	}
	return block, nil
}

func convertStmt(fset *token.FileSet, stmt ast.Stmt) (contract.Stmt, error) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		if s.Tok != token.DEFINE || len(s.Lhs) != 1 || len(s.Rhs) != 1 {
			return nil, errors.Errorf("only single name := bindings are supported")
		}
		name, ok := s.Lhs[0].(*ast.Ident)
		if !ok {
			return nil, errors.Errorf("binding to a non name")
		}
		init, err := convertExpr(s.Rhs[0])
		if err != nil {
			return nil, err
		}
		return &contract.Let{Name: name.Name, Init: init}, nil
	case *ast.DeclStmt:
		gd, ok := s.Decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR || len(gd.Specs) != 1 {
			return nil, errors.Errorf("unsupported declaration")
		}
		vs := gd.Specs[0].(*ast.ValueSpec)
		if len(vs.Names) != 1 || len(vs.Values) != 1 {
			return nil, errors.Errorf("var declarations need exactly one name and value")
		}
		init, err := convertExpr(vs.Values[0])
		if err != nil {
			return nil, err
		}
		return &contract.Let{Name: vs.Names[0].Name, Init: init}, nil
	case *ast.IfStmt:
		return convertIf(fset, s)
	case *ast.ReturnStmt:
		switch len(s.Results) {
		case 0:
			return &contract.Return{}, nil
		case 1:
			v, err := convertExpr(s.Results[0])
			if err != nil {
				return nil, err
			}
			return &contract.Return{Value: v}, nil
		}
		return nil, errors.Errorf("multiple return values")
	case *ast.ExprStmt:
		x, err := convertExpr(s.X)
		if err != nil {
			return nil, err
		}
		return &contract.ExprStmt{X: x}, nil
	case *ast.EmptyStmt:
		return nil, nil
	}
	return nil, errors.Errorf("unsupported statement %T", stmt)
}

func convertIf(fset *token.FileSet, s *ast.IfStmt) (*contract.If, error) {
	if s.Init != nil {
		return nil, errors.Errorf("if with an init statement")
	}
	cond, err := convertExpr(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := convertBlock(fset, s.Body.List)
	if err != nil {
		return nil, err
	}
	result := &contract.If{Cond: cond, Then: then}
	switch e := s.Else.(type) {
	case *ast.BlockStmt:
		if result.Else, err = convertBlock(fset, e.List); err != nil {
			return nil, err
		}
	case *ast.IfStmt:
		inner, err := convertIf(fset, e)
		if err != nil {
			return nil, err
		}
		result.Else = &contract.Block{Stmts: []contract.Stmt{inner}}
	}
	return result, nil
}

// intLiteral rewrites a Go integer literal (017, 0o17, 0b101, 0x_ff, 1_000)
// as plain decimal text.
func intLiteral(lit string) string {
	v := constant.MakeFromLiteral(lit, token.INT, 0)
	if v.Kind() != constant.Int {
		return lit
	}
	return v.ExactString()
}

func convertExpr(node ast.Expr) (contract.Expr, error) {
	switch e := node.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT:
			return contract.Int(intLiteral(e.Value)), nil
		case token.FLOAT, token.IMAG:
			return &contract.Literal{Kind: contract.LitFloat, Text: e.Value}, nil
		}
		return &contract.Literal{Kind: contract.LitString, Text: e.Value}, nil
	case *ast.Ident:
		switch e.Name {
		case "true":
			return contract.Bool(true), nil
		case "false":
			return contract.Bool(false), nil
		}
		return contract.Var(e.Name), nil
	case *ast.ParenExpr:
		x, err := convertExpr(e.X)
		if err != nil {
			return nil, err
		}
		return &contract.Paren{X: x}, nil
	case *ast.BinaryExpr:
		x, err := convertExpr(e.X)
		if err != nil {
			return nil, err
		}
		y, err := convertExpr(e.Y)
		if err != nil {
			return nil, err
		}
		op, ok := binaryOps[e.Op]
		if !ok {
			op = contract.BinaryOp(e.Op.String())
		}
		return contract.Bin(op, x, y), nil
	case *ast.UnaryExpr:
		x, err := convertExpr(e.X)
		if err != nil {
			return nil, err
		}
		op, ok := unaryOps[e.Op]
		if !ok {
			op = contract.UnaryOp(e.Op.String())
		}
		return &contract.Unary{Op: op, X: x}, nil
	case *ast.StarExpr:
		x, err := convertExpr(e.X)
		if err != nil {
			return nil, err
		}
		return &contract.Unary{Op: contract.OpDeref, X: x}, nil
	case *ast.IndexExpr:
		x, err := convertExpr(e.X)
		if err != nil {
			return nil, err
		}
		index, err := convertExpr(e.Index)
		if err != nil {
			return nil, err
		}
		return &contract.Index{X: x, Index: index}, nil
	case *ast.SelectorExpr:
		name, ok := qualified(e)
		if !ok {
			return nil, errors.Errorf("unsupported selector .%s", e.Sel.Name)
		}
		return contract.Var(name), nil
	case *ast.CallExpr:
		return convertCall(e)
	}
	return nil, errors.Errorf("unsupported syntax %T", node)
}

func convertCall(call *ast.CallExpr) (contract.Expr, error) {
	args := make([]contract.Expr, len(call.Args))
	for i, a := range call.Args {
		arg, err := convertExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		if len(args) == 0 {
			recv, err := convertExpr(fun.X)
			if err != nil {
				return nil, err
			}
			return &contract.MethodCall{Receiver: recv, Method: fun.Sel.Name}, nil
		}
		if name, ok := qualified(fun); ok {
			return &contract.Call{Fun: name, Args: args}, nil
		}
	case *ast.Ident:
		if fun.Name == "len" && len(args) == 1 {
			return &contract.MethodCall{Receiver: args[0], Method: "len"}, nil
		}
		return &contract.Call{Fun: fun.Name, Args: args}, nil
	}
	return nil, errors.Errorf("unsupported call")
}

// qualified joins a chain of selectors on names with ::.
func qualified(e *ast.SelectorExpr) (string, bool) {
	switch x := e.X.(type) {
	case *ast.Ident:
		return x.Name + "::" + e.Sel.Name, true
	case *ast.SelectorExpr:
		prefix, ok := qualified(x)
		return prefix + "::" + e.Sel.Name, ok
	}
	return "", false
}
