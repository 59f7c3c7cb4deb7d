// Package convert lowers the flat metadata tree syntax.Parse produces into
// the typed ast.Function tree the runtime evaluator walks — the Go
// counterpart of lib.rs's own AST-from-piston_meta-events conversion pass.
//
// A top-level node shape Convert does not recognize is not an error by
// itself: its range is recorded as ignored and returned to the caller,
// which is load.Load's job to turn into a fatal diagnostic (spec.md 4.3
// step 6). An unrecognized node shape inside a function body is a hard
// conversion error instead. The `extern` tag is the one top-level shape
// this package deliberately never converts, by design — see the extern
// rule in syntax's grammarText.
package convert

import (
	"fmt"

	"github.com/dyon-lang/dyon/ast"
	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/ty"
)

var binOps = map[string]ast.BinOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpRem,
	"==": ast.OpEq, "!=": ast.OpNotEq,
	"<": ast.OpLess, "<=": ast.OpLessEq, ">": ast.OpGreater, ">=": ast.OpGreaterEq,
	"&&": ast.OpAnd, "||": ast.OpOr, "..": ast.OpDotDot,
}

var unOps = map[string]ast.UnOp{
	"-": ast.OpNeg, "!": ast.OpNot,
}

// Convert walks root (as produced by syntax.Parse(sourceName, *source)),
// registers every fn it recognizes into module, and returns the byte
// ranges of any node shape it had to skip. The ignored ranges collected so
// far are still returned alongside a hard error, so the loader can still
// point at something in its composite diagnostic (spec.md 4.3 step 6).
func Convert(root *syntax.Node, source *string, module *runtime.Module) ([]syntax.Range, error) {
	var ignored []syntax.Range
	for _, top := range root.Children {
		switch top.Tag {
		case syntax.TagFn:
			fn, err := convertFn(top, source)
			if err != nil {
				return ignored, err
			}
			module.Register(fn)
		case syntax.TagExtern:
			ignored = append(ignored, top.Range)
		default:
			ignored = append(ignored, top.Range)
		}
	}
	return ignored, nil
}

func convertFn(n *syntax.Node, source *string) (*ast.Function, error) {
	var params []string
	var block *syntax.Node
	for _, c := range n.Children {
		switch c.Tag {
		case syntax.TagParam:
			params = append(params, c.Text)
		case syntax.TagBlock:
			block = c
		}
	}
	if block == nil {
		return nil, fmt.Errorf("fn %s: missing body", n.Text)
	}
	body, err := convertBlock(block)
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: n.Text, Params: params, Body: body, Source: source, Ret: ty.Any}, nil
}

func convertBlock(n *syntax.Node) (*ast.Node, error) {
	out := &ast.Node{Kind: ast.KindBlock, Pos: n.Range}
	for _, c := range n.Children {
		stmt, err := convertNode(c)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, stmt)
	}
	return out, nil
}

func convertNode(n *syntax.Node) (*ast.Node, error) {
	switch n.Tag {
	case syntax.TagBlock:
		return convertBlock(n)

	case syntax.TagLet:
		val, err := convertNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindLet, Name: n.Text, Pos: n.Range, Children: []*ast.Node{val}}, nil

	case syntax.TagAssign:
		val, err := convertNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindAssign, Name: n.Text, Pos: n.Range, Children: []*ast.Node{val}}, nil

	case syntax.TagIf:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindIf, Pos: n.Range, Children: children}, nil

	case syntax.TagLoop:
		body, err := convertNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindLoop, Pos: n.Range, Children: []*ast.Node{body}}, nil

	case syntax.TagBreak:
		return &ast.Node{Kind: ast.KindBreak, Pos: n.Range}, nil
	case syntax.TagContinue:
		return &ast.Node{Kind: ast.KindContinue, Pos: n.Range}, nil

	case syntax.TagReturn:
		if len(n.Children) == 0 {
			return &ast.Node{Kind: ast.KindReturn, Pos: n.Range}, nil
		}
		val, err := convertNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindReturn, Pos: n.Range, Children: []*ast.Node{val}}, nil

	case syntax.TagBinOp:
		op, ok := binOps[n.Text]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", n.Text)
		}
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindBinOp, BinOp: op, Pos: n.Range, Children: children}, nil

	case syntax.TagUnOp:
		op, ok := unOps[n.Text]
		if !ok {
			return nil, fmt.Errorf("unknown unary operator %q", n.Text)
		}
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindUnOp, UnOp: op, Pos: n.Range, Children: children}, nil

	case syntax.TagTry:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindTry, Pos: n.Range, Children: children}, nil

	case syntax.TagNumber:
		return &ast.Node{Kind: ast.KindLitNumber, Number: n.Num, Pos: n.Range}, nil
	case syntax.TagString:
		return &ast.Node{Kind: ast.KindLitText, Text: n.Text, Pos: n.Range}, nil
	case syntax.TagBool:
		return &ast.Node{Kind: ast.KindLitBool, Bool: n.Bool, Pos: n.Range}, nil
	case syntax.TagIdent:
		return &ast.Node{Kind: ast.KindIdent, Name: n.Text, Pos: n.Range}, nil

	case syntax.TagCall:
		var args []*ast.Node
		for _, a := range n.Children {
			// a.Tag == TagArg, wrapping the real expression in a.Children[0]
			conv, err := convertNode(a.Children[0])
			if err != nil {
				return nil, err
			}
			args = append(args, conv)
		}
		return &ast.Node{Kind: ast.KindCall, Name: n.Text, Pos: n.Range, Children: args}, nil

	case syntax.TagArray:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindArrayLit, Pos: n.Range, Children: children}, nil

	case syntax.TagObject:
		var pairs []*ast.Node
		for _, p := range n.Children {
			val, err := convertNode(p.Children[0])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, &ast.Node{Kind: ast.KindPair, Name: p.Text, Pos: p.Range, Children: []*ast.Node{val}})
		}
		return &ast.Node{Kind: ast.KindObjectLit, Pos: n.Range, Children: pairs}, nil

	case syntax.TagVec4:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindLitVec4, Pos: n.Range, Children: children}, nil

	case syntax.TagNone:
		return &ast.Node{Kind: ast.KindNone, Pos: n.Range}, nil
	case syntax.TagSome:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindSome, Pos: n.Range, Children: children}, nil
	case syntax.TagOk:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindOk, Pos: n.Range, Children: children}, nil
	case syntax.TagErr:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindErr, Pos: n.Range, Children: children}, nil

	case syntax.TagGo:
		call, err := convertNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindGo, Pos: n.Range, Children: []*ast.Node{call}}, nil

	case syntax.TagClosure:
		var params []string
		var body *ast.Node
		for _, c := range n.Children {
			if c.Tag == syntax.TagParam {
				params = append(params, c.Text)
				continue
			}
			if c.Tag == syntax.TagBlock {
				b, err := convertBlock(c)
				if err != nil {
					return nil, err
				}
				body = b
			}
		}
		return &ast.Node{Kind: ast.KindClosureLit, Pos: n.Range, Closure: &ast.Closure{Params: params, Body: body}}, nil

	case syntax.TagIndex:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindIndex, Pos: n.Range, Children: children}, nil

	case syntax.TagField:
		target, err := convertNode(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindField, Name: n.Text, Pos: n.Range, Children: []*ast.Node{target}}, nil

	case syntax.TagRecv:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindRecv, Pos: n.Range, Children: children}, nil

	case syntax.TagSend:
		children, err := convertAll(n.Children)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindSend, Pos: n.Range, Children: children}, nil
	}
	return nil, fmt.Errorf("convert: unsupported node tag %q at %d", n.Tag, n.Range.Offset)
}

func convertAll(nodes []*syntax.Node) ([]*ast.Node, error) {
	out := make([]*ast.Node, len(nodes))
	for i, n := range nodes {
		c, err := convertNode(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
