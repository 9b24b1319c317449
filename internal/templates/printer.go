package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/mvcgen/internal/ir"
)

// printer renders IR nodes as gofmt-shaped Go source
type printer struct {
	sb      strings.Builder
	imports *ImportManager
	indent  int
}

func newPrinter(imports *ImportManager) *printer {
	return &printer{imports: imports}
}

func (p *printer) String() string {
	return p.sb.String()
}

func (p *printer) write(s string) {
	p.sb.WriteString(s)
}

func (p *printer) newline() {
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat("\t", p.indent))
}

func (p *printer) qualify(path, name string) string {
	return p.imports.Qualify(path, name)
}

func (p *printer) decl(d ir.Decl) {
	switch d := d.(type) {
	case ir.StructDecl:
		p.doc(d.Doc)
		p.write("type " + d.Name + " struct {")
		p.indent++
		width := 0
		for _, f := range d.Fields {
			width = max(width, len(f.Name))
		}
		for _, f := range d.Fields {
			p.newline()
			p.write(f.Name + strings.Repeat(" ", width-len(f.Name)+1))
			p.expr(f.Type)
		}
		p.indent--
		p.newline()
		p.write("}\n")
	case ir.FuncDecl:
		p.doc(d.Doc)
		p.write("func ")
		if d.Recv != nil {
			p.write("(" + d.Recv.Name + " ")
			p.expr(d.Recv.Type)
			p.write(") ")
		}
		p.write(d.Name)
		p.signature(d.Params, d.Results)
		p.write(" ")
		p.block(d.Body)
		p.write("\n")
	default:
		panic(fmt.Sprintf("templates: unknown declaration %T", d))
	}
}

func (p *printer) doc(doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		p.write("// " + line + "\n")
	}
}

func (p *printer) signature(params []ir.Field, results []ir.Expr) {
	p.write("(")
	for i, f := range params {
		if i > 0 {
			p.write(", ")
		}
		if f.Name != "" {
			p.write(f.Name + " ")
		}
		p.expr(f.Type)
	}
	p.write(")")
	p.results(results)
}

func (p *printer) results(results []ir.Expr) {
	switch len(results) {
	case 0:
	case 1:
		p.write(" ")
		p.expr(results[0])
	default:
		p.write(" (")
		p.list(results)
		p.write(")")
	}
}

func (p *printer) block(stmts []ir.Stmt) {
	p.write("{")
	p.indent++
	for _, s := range stmts {
		p.newline()
		p.stmt(s)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) stmt(s ir.Stmt) {
	switch s := s.(type) {
	case ir.ExprStmt:
		p.expr(s.X)
	case ir.Assign:
		p.write(strings.Join(s.LHS, ", "))
		if s.Define {
			p.write(" := ")
		} else {
			p.write(" = ")
		}
		p.list(s.RHS)
	case ir.Return:
		p.write("return")
		if len(s.Results) > 0 {
			p.write(" ")
			p.list(s.Results)
		}
	case ir.If:
		p.write("if ")
		if s.Init != nil {
			p.stmt(s.Init)
			p.write("; ")
		}
		p.expr(s.Cond)
		p.write(" ")
		p.block(s.Body)
		if len(s.Else) > 0 {
			p.write(" else ")
			p.block(s.Else)
		}
	default:
		panic(fmt.Sprintf("templates: unknown statement %T", s))
	}
}

func (p *printer) list(exprs []ir.Expr) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e)
	}
}

func (p *printer) expr(e ir.Expr) {
	switch e := e.(type) {
	case ir.Ident:
		p.write(string(e))
	case ir.Qual:
		if q := p.qualify(e.Path, ""); q != "" {
			p.write(q + ".")
		}
		p.write(e.Name)
	case ir.TypeExpr:
		p.write(e.Ref.Format(p.qualify))
	case ir.Lit:
		p.write(literal(e.Value))
	case ir.Call:
		p.call(e)
	case ir.Sel:
		p.expr(e.X)
		p.write("." + e.Name)
	case ir.Chain:
		p.expr(e.X)
		p.indent++
		for _, c := range e.Calls {
			p.write(".")
			p.newline()
			p.call(c)
		}
		p.indent--
	case ir.SliceLit:
		p.write("[]")
		p.expr(e.Elem)
		p.write("{")
		p.list(e.Elems)
		p.write("}")
	case ir.Composite:
		p.expr(e.Type)
		p.write("{")
		for i, f := range e.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Key + ": ")
			p.expr(f.Value)
		}
		p.write("}")
	case ir.Binary:
		p.expr(e.X)
		p.write(" " + e.Op + " ")
		p.expr(e.Y)
	case ir.Unary:
		p.write(e.Op)
		p.expr(e.X)
	case ir.TypeAssert:
		p.expr(e.X)
		p.write(".(")
		p.expr(e.Type)
		p.write(")")
	case ir.FuncLit:
		p.write("func")
		p.signature(e.Params, e.Results)
		p.write(" ")
		p.block(e.Body)
	case ir.FuncType:
		p.write("func(")
		p.list(e.Params)
		p.write(")")
		p.results(e.Results)
	default:
		panic(fmt.Sprintf("templates: unknown expression %T", e))
	}
}

func (p *printer) call(c ir.Call) {
	p.expr(c.Fun)
	if len(c.TypeArgs) > 0 {
		p.write("[")
		p.list(c.TypeArgs)
		p.write("]")
	}
	p.write("(")
	if c.Multiline && len(c.Args) > 0 {
		p.indent++
		for _, arg := range c.Args {
			p.newline()
			p.expr(arg)
			p.write(",")
		}
		p.indent--
		p.newline()
	} else {
		p.list(c.Args)
	}
	p.write(")")
}

func literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	default:
		panic(fmt.Sprintf("templates: unsupported literal %T", v))
	}
}
