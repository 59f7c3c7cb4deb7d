// Package lifetime is the stand-in for Dyon's borrow/lifetime checker: it
// walks the flat metadata tree syntax.Parse produces, refines each
// function's declared return type from the shape of its last statement,
// and statically rejects a `go` call whose arguments are built from a
// reference-producing intrinsic — the one borrow-check rule spec.md
// requires ("no unsafe reference crosses a thread boundary") that can be
// caught before conversion to a typed AST.
//
// It is designed to run concurrently with convert.Convert over the same
// metadata tree, joined via an errgroup.Group, mirroring how lib.rs scopes
// lifetime checking as a pass independent of (and parallel to) the AST
// build.
package lifetime

import (
	"fmt"

	"github.com/dyon-lang/dyon/prelude"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/ty"
)

// refArgIntrinsics marks the prelude intrinsics whose result is reference-derived
// (an interior alias into a container) and therefore must never be
// captured by a `go` closure's argument list.
var refArgIntrinsics = map[string]bool{}

// Check walks root and returns, per function name, the refined return type
// its last top-level statement implies. It fails with an error identifying
// the offending `go` call if any argument expression invokes a
// reference-producing intrinsic.
func Check(root *syntax.Node, pre *prelude.Prelude) (map[string]ty.Type, error) {
	refined := make(map[string]ty.Type)
	for _, fn := range root.Children {
		if fn.Tag != syntax.TagFn {
			continue
		}
		var last *syntax.Node
		for _, c := range fn.Children {
			if c.Tag == syntax.TagBlock {
				if len(c.Children) > 0 {
					last = c.Children[len(c.Children)-1]
				}
			}
		}
		refined[fn.Text] = prelude.RefinedReturn(shapeOf(last))
		if err := checkNoUnsafeAcrossGo(fn); err != nil {
			return nil, err
		}
	}
	return refined, nil
}

func shapeOf(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	switch n.Tag {
	case syntax.TagReturn:
		if len(n.Children) == 0 {
			return ""
		}
		return shapeOf(n.Children[0])
	case syntax.TagBool:
		return "bool"
	case syntax.TagNumber:
		return "number"
	case syntax.TagString:
		return "string"
	case syntax.TagBinOp:
		switch n.Text {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return "bool"
		case "..":
			return "link"
		case "+":
			if shapeOf(n.Children[0]) == "string" || shapeOf(n.Children[1]) == "string" {
				return "string"
			}
		}
		return "number"
	case syntax.TagVec4:
		return "vec4"
	case syntax.TagArray:
		return "array"
	case syntax.TagObject:
		return "object"
	case syntax.TagSome, syntax.TagNone:
		return "option"
	case syntax.TagOk, syntax.TagErr:
		return "result"
	case syntax.TagGo:
		return "thread"
	case syntax.TagClosure:
		return "closure"
	}
	return ""
}

// checkNoUnsafeAcrossGo walks fn looking for `go` calls whose argument
// expressions themselves call a reference-producing intrinsic.
func checkNoUnsafeAcrossGo(fn *syntax.Node) error {
	var walk func(n *syntax.Node, insideGo bool) error
	walk = func(n *syntax.Node, insideGo bool) error {
		if n == nil {
			return nil
		}
		if n.Tag == syntax.TagGo {
			insideGo = true
		}
		if insideGo && n.Tag == syntax.TagCall && refArgIntrinsics[n.Text] {
			return fmt.Errorf("go %s: argument captures a reference across a thread boundary", n.Text)
		}
		for _, c := range n.Children {
			if err := walk(c, insideGo); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(fn, false)
}
