// Package ir is the statement and expression tree generated routers are
// built from. Nodes carry import paths, not package names; the emitter
// decides how each package is referenced.
package ir

import "github.com/toyz/mvcgen/internal/models"

// Expr is an expression node
type Expr interface{ isExpr() }

// Stmt is a statement node
type Stmt interface{ isStmt() }

// Decl is a top level declaration
type Decl interface{ isDecl() }

// Ident is a bare identifier
type Ident string

// Qual is an identifier exported by another package
type Qual struct {
	Path string
	Name string
}

// TypeExpr renders a models.TypeRef
type TypeExpr struct {
	Ref models.TypeRef
}

// Lit is a string, integer, float or boolean literal
type Lit struct {
	Value any
}

// Call is a function or method call. Multiline calls put each argument on
// its own line.
type Call struct {
	Fun       Expr
	TypeArgs  []Expr
	Args      []Expr
	Multiline bool
}

// Sel is X.Name
type Sel struct {
	X    Expr
	Name string
}

// Chain is a fluent call chain: X.Call0(...).Call1(...), one call per line
type Chain struct {
	X     Expr
	Calls []Call
}

// SliceLit is []Elem{Elems...}
type SliceLit struct {
	Elem  Expr
	Elems []Expr
}

// KeyValue is one Key: Value element of a composite literal
type KeyValue struct {
	Key   string
	Value Expr
}

// Composite is Type{Key: Value, ...} on one line
type Composite struct {
	Type   Expr
	Fields []KeyValue
}

// Binary is X Op Y
type Binary struct {
	X  Expr
	Op string
	Y  Expr
}

// Unary is Op X
type Unary struct {
	Op string
	X  Expr
}

// TypeAssert is X.(Type)
type TypeAssert struct {
	X    Expr
	Type Expr
}

// FuncLit is an anonymous function
type FuncLit struct {
	Params  []Field
	Results []Expr
	Body    []Stmt
}

// FuncType is a func type used as a field or parameter type
type FuncType struct {
	Params  []Expr
	Results []Expr
}

func (Ident) isExpr()      {}
func (Qual) isExpr()       {}
func (TypeExpr) isExpr()   {}
func (Lit) isExpr()        {}
func (Call) isExpr()       {}
func (Sel) isExpr()        {}
func (Chain) isExpr()      {}
func (SliceLit) isExpr()   {}
func (Composite) isExpr()  {}
func (Binary) isExpr()     {}
func (Unary) isExpr()      {}
func (TypeAssert) isExpr() {}
func (FuncLit) isExpr()    {}
func (FuncType) isExpr()   {}

// ExprStmt evaluates an expression for its side effects
type ExprStmt struct {
	X Expr
}

// Assign is LHS = RHS, or LHS := RHS when Define is set
type Assign struct {
	LHS    []string
	Define bool
	RHS    []Expr
}

// Return returns Results
type Return struct {
	Results []Expr
}

// If is if Init; Cond { Body } else { Else }
type If struct {
	Init Stmt
	Cond Expr
	Body []Stmt
	Else []Stmt
}

func (ExprStmt) isStmt() {}
func (Assign) isStmt()   {}
func (Return) isStmt()   {}
func (If) isStmt()       {}

// Field is a named parameter, result or struct field
type Field struct {
	Name string
	Type Expr
}

// StructDecl declares a struct type
type StructDecl struct {
	Doc    string
	Name   string
	Fields []Field
}

// FuncDecl declares a function, or a method when Recv is set
type FuncDecl struct {
	Doc     string
	Recv    *Field
	Name    string
	Params  []Field
	Results []Expr
	Body    []Stmt
}

func (StructDecl) isDecl() {}
func (FuncDecl) isDecl()   {}

// File is one generated Go source file
type File struct {
	Header      string
	PackageName string
	PackagePath string
	Decls       []Decl
}

// Helpers keep builders short.

// CallOf builds a call with positional arguments
func CallOf(fun Expr, args ...Expr) Call {
	return Call{Fun: fun, Args: args}
}

// Method builds recv.name(args...)
func Method(recv Expr, name string, args ...Expr) Call {
	return Call{Fun: Sel{X: recv, Name: name}, Args: args}
}

// String returns a string literal
func String(s string) Lit {
	return Lit{Value: s}
}

// Nil is the nil identifier
const Nil = Ident("nil")

// ErrNotNil is err != nil
var ErrNotNil = Binary{X: Ident("err"), Op: "!=", Y: Nil}

// ReturnErr returns zero, err for (any, error) results
func ReturnErr(zero Expr) Return {
	return Return{Results: []Expr{zero, Ident("err")}}
}

// Type wraps a TypeRef
func Type(ref models.TypeRef) TypeExpr {
	return TypeExpr{Ref: ref}
}
