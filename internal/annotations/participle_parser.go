package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/mvcgen/internal/errors"
)

// markerAST is the grammar root for the text that follows //mvc::
type markerAST struct {
	Name string    `parser:"@Word"`
	Args []*argAST `parser:"@@*"`
}

type argAST struct {
	Named      *namedAST `parser:"  @@"`
	Positional *valueAST `parser:"| @@"`
}

type namedAST struct {
	Key   string    `parser:"@Flag"`
	Value *valueAST `parser:"( '=' @@ )?"`
}

// valueAST is one value or a comma separated list of values
type valueAST struct {
	Items []*itemAST `parser:"@@ ( ',' @@ )*"`
}

type itemAST struct {
	String *string  `parser:"  @String"`
	List   *listAST `parser:"| '[' @@ ']'"`
	Map    *mapAST  `parser:"| '{' @@ '}'"`
	Path   *string  `parser:"| @Path"`
	Word   *string  `parser:"| @Word"`
}

type listAST struct {
	Items []*itemAST `parser:"( @@ ( ',' @@ )* )?"`
}

type mapAST struct {
	Entries []*entryAST `parser:"( @@ ( ',' @@ )* )?"`
}

type entryAST struct {
	Key   string   `parser:"@Word '='"`
	Value *itemAST `parser:"@@"`
}

var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Flag", Pattern: `-[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Path", Pattern: `/(?:[^\s,\[\]{}]|\{[^\s{}]*\})*`},
	{Name: "Word", Pattern: `(?:-[0-9]|[^\s\[\]{},="/-])[^\s\[\]{},="]*`},
	{Name: "Punct", Pattern: `[\[\]{},=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser turns //mvc:: comment lines into Markers
type Parser struct {
	parser *participle.Parser[markerAST]
}

// NewParser creates a marker parser
func NewParser() *Parser {
	return &Parser{
		parser: participle.MustBuild[markerAST](
			participle.Lexer(markerLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
	}
}

// IsMarkerLine reports whether a raw comment line carries a marker
func IsMarkerLine(comment string) bool {
	_, ok := markerBody(comment)
	return ok
}

func markerBody(comment string) (string, bool) {
	content := strings.TrimSpace(comment)
	if !strings.HasPrefix(content, "//") {
		return "", false
	}
	content = strings.TrimSpace(strings.TrimPrefix(content, "//"))
	if !strings.HasPrefix(content, Prefix) {
		return "", false
	}
	return strings.TrimPrefix(content, Prefix), true
}

// Parse parses a single marker comment line
func (p *Parser) Parse(comment string, loc errors.SourceLocation) (Marker, error) {
	body, ok := markerBody(comment)
	if !ok {
		return Marker{}, errors.NewSyntaxError(comment, loc, fmt.Errorf("marker must start with //%s", Prefix))
	}
	if strings.TrimSpace(body) == "" {
		return Marker{}, errors.NewSyntaxError(comment, loc, fmt.Errorf("empty marker"))
	}

	ast, err := p.parser.ParseString(loc.File, body)
	if err != nil {
		return Marker{}, errors.NewSyntaxError(comment, loc, err)
	}

	marker := Marker{
		Identifier: ast.Name,
		Category:   Lookup(ast.Name),
		Location:   loc,
		Raw:        strings.TrimSpace(comment),
	}

	var positional []Value
	for _, arg := range ast.Args {
		if arg.Named != nil {
			name := strings.TrimPrefix(arg.Named.Key, "-")
			value := Value{Kind: BoolValue, Bool: true}
			if arg.Named.Value != nil {
				if value, err = arg.Named.Value.value(); err != nil {
					return Marker{}, errors.NewSyntaxError(comment, loc, err)
				}
			}
			marker.Attributes = setAttribute(marker.Attributes, name, value)
			continue
		}
		value, err := arg.Positional.value()
		if err != nil {
			return Marker{}, errors.NewSyntaxError(comment, loc, err)
		}
		positional = append(positional, value)
	}

	switch len(positional) {
	case 0:
	case 1:
		marker.Attributes = append([]Attribute{{Name: ValueAttribute, Value: positional[0]}}, marker.Attributes...)
	default:
		marker.Attributes = append([]Attribute{{Name: ValueAttribute, Value: Value{Kind: ListValue, List: positional}}}, marker.Attributes...)
	}

	return marker, nil
}

// ParseComments parses every marker line in a comment group. Lines without
// the marker prefix are skipped.
func (p *Parser) ParseComments(lines []string, locate func(i int) errors.SourceLocation) ([]Marker, []error) {
	var markers []Marker
	var errs []error
	for i, line := range lines {
		if !IsMarkerLine(line) {
			continue
		}
		m, err := p.Parse(line, locate(i))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		markers = append(markers, m)
	}
	return markers, errs
}

func setAttribute(attrs []Attribute, name string, value Value) []Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attribute{Name: name, Value: value})
}

func (v *valueAST) value() (Value, error) {
	if len(v.Items) == 1 {
		return v.Items[0].value()
	}
	list := Value{Kind: ListValue, List: make([]Value, 0, len(v.Items))}
	for _, item := range v.Items {
		iv, err := item.value()
		if err != nil {
			return Value{}, err
		}
		list.List = append(list.List, iv)
	}
	return list, nil
}

func (i *itemAST) value() (Value, error) {
	switch {
	case i.String != nil:
		s, err := strconv.Unquote(*i.String)
		if err != nil {
			return Value{}, fmt.Errorf("invalid string %s: %w", *i.String, err)
		}
		return Value{Kind: StringValue, Str: s}, nil
	case i.List != nil:
		list := Value{Kind: ListValue, List: make([]Value, 0, len(i.List.Items))}
		for _, item := range i.List.Items {
			iv, err := item.value()
			if err != nil {
				return Value{}, err
			}
			list.List = append(list.List, iv)
		}
		return list, nil
	case i.Map != nil:
		m := Value{Kind: MapValue, Map: make([]Attribute, 0, len(i.Map.Entries))}
		for _, entry := range i.Map.Entries {
			ev, err := entry.Value.value()
			if err != nil {
				return Value{}, err
			}
			m.Map = setAttribute(m.Map, entry.Key, ev)
		}
		return m, nil
	case i.Path != nil:
		return Value{Kind: StringValue, Str: *i.Path}, nil
	case i.Word != nil:
		return scalar(*i.Word), nil
	}
	return Value{}, fmt.Errorf("empty value")
}

func scalar(word string) Value {
	switch word {
	case "true":
		return Value{Kind: BoolValue, Bool: true}
	case "false":
		return Value{Kind: BoolValue, Bool: false}
	}
	if n, err := strconv.ParseInt(word, 10, 64); err == nil {
		return Value{Kind: IntValue, Int: n}
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil && strings.ContainsAny(word, ".eE") {
		return Value{Kind: FloatValue, Float: f}
	}
	return Value{Kind: StringValue, Str: word}
}
