// Package ast defines the lowered syntax tree a module's functions are
// built from: the shape convert.Convert produces and the evaluator walks.
//
// Literal nodes carry native Go scalars (float64, string, bool, [4]float32)
// rather than value.Value, so this package has no dependency on value —
// that keeps value -> ast a one-way edge (Closure embeds *ast.Closure)
// with no cycle back.
package ast

import (
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/ty"
)

// NodeKind tags the shape of an expression or statement node.
type NodeKind int

const (
	KindBlock NodeKind = iota
	KindLitBool
	KindLitNumber
	KindLitText
	KindLitVec4
	KindIdent
	KindLet
	KindAssign
	KindBinOp
	KindUnOp
	KindIf
	KindFor
	KindLoop
	KindBreak
	KindContinue
	KindReturn
	KindCall
	KindGo
	KindArrayLit
	KindObjectLit
	KindLinkLit
	KindIndex
	KindField
	KindNone
	KindSome
	KindOk
	KindErr
	KindTry       // the `?` propagation operator
	KindClosureLit
	KindSend
	KindRecv
	KindPair
)

// BinOp enumerates binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
	OpDotDot // range
)

// UnOp enumerates unary operators.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

// Node is one node of the lowered AST. A single struct (rather than one
// type per kind) mirrors the teacher's own node shape (interp.node in
// yaegi: a single struct with a kind tag and purpose-specific fields) and
// keeps the tree walker's dispatch a plain switch on Kind.
type Node struct {
	Kind     NodeKind
	Pos      syntax.Range
	Children []*Node

	// Literal payloads.
	Bool    bool
	Number  float64
	Text    string
	Vec4    [4]float32

	// Ident/Call/Field name, or the `?`-free function name for KindCall.
	Name string

	// BinOp/UnOp operator.
	BinOp BinOp
	UnOp  UnOp

	// KindClosureLit payload.
	Closure *Closure
}

// Closure is the body of a function literal: its parameter names and a
// block of statements, plus the relative function index machinery is
// supplied by value.ClosureEnv at the call site.
type Closure struct {
	Params []string
	Body   *Node
}

// Call-argument children (KindCall.Children) and array/link literal
// children (KindArrayLit/KindLinkLit) are plain expression nodes.
// KindObjectLit.Children are KindPair nodes: Name holds the key, and
// Children[0] holds the value expression.
//
// KindLitVec4 does not carry a precomputed [4]float32 — vec4(e0,e1,e2,e3)
// accepts arbitrary expressions for its components, so its four children
// are evaluated at call time like any other expression node.

// Function is a named, source-backed script function with a body and a
// return type that starts as declared and is later overwritten by the
// lifetime checker's refined type.
type Function struct {
	Name   string
	Params []string
	Body   *Node
	Source *string // shared pointer to the originating source buffer
	Ret    ty.Type
}
