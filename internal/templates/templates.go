// Package templates is the emitter: it renders the ir tree of a generated
// file as Go source.
package templates

import (
	"bytes"
	"fmt"

	"github.com/toyz/mvcgen/internal/ir"
)

// Header marks every generated file
const Header = "// Code generated by mvcgen. DO NOT EDIT."

var registry = NewTemplateRegistry()

type fileData struct {
	Header      string
	PackageName string
	Imports     string
	Decls       []string
}

// Render turns an ir.File into Go source. The output is gofmt-shaped but
// callers still run it through the formatter.
func Render(file *ir.File) ([]byte, error) {
	imports := NewImportManager(file.PackagePath)

	decls := make([]string, 0, len(file.Decls))
	for _, d := range file.Decls {
		p := newPrinter(imports)
		if err := catch(func() { p.decl(d) }); err != nil {
			return nil, err
		}
		decls = append(decls, p.String())
	}

	data := fileData{
		Header:      file.Header,
		PackageName: file.PackageName,
		Imports:     imports.GenerateImports(),
		Decls:       decls,
	}

	var buf bytes.Buffer
	if err := registry.MustGet("router-file").Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute router-file template: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderExpr renders a single expression as seen from package pkgPath
func RenderExpr(e ir.Expr, pkgPath string) string {
	p := newPrinter(NewImportManager(pkgPath))
	p.expr(e)
	return p.String()
}

// RenderStmts renders statements at the given indent level
func RenderStmts(stmts []ir.Stmt, pkgPath string, indent int) string {
	p := newPrinter(NewImportManager(pkgPath))
	p.indent = indent
	for i, s := range stmts {
		if i > 0 {
			p.newline()
		}
		p.stmt(s)
	}
	return p.String()
}

// RenderManifest renders the service manifest, one identifier per line
func RenderManifest(identifiers []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := registry.MustGet("manifest").Execute(&buf, identifiers); err != nil {
		return nil, fmt.Errorf("failed to execute manifest template: %w", err)
	}
	return buf.Bytes(), nil
}

func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}
