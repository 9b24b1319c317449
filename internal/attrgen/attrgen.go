// Package attrgen turns custom markers into the route attribute map.
package attrgen

import (
	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/ir"
	"github.com/toyz/mvcgen/internal/models"
)

// CompactLimit is the largest map rendered as a single AttributesOf call
const CompactLimit = 10

// Collect flattens custom markers into attribute entries. typeMarkers holds
// the marker lists of the controller chain, nearest first; method markers
// are applied last. A later entry with the same key replaces the value but
// keeps the original position. Markers without attributes are dropped.
func Collect(typeMarkers [][]annotations.Marker, methodMarkers []annotations.Marker) []annotations.Attribute {
	var out []annotations.Attribute
	index := make(map[string]int)

	add := func(markers []annotations.Marker) {
		for _, m := range markers {
			if m.Category != annotations.Custom {
				continue
			}
			for _, attr := range m.Attributes {
				key := m.Identifier
				if attr.Name != annotations.ValueAttribute {
					key += "." + attr.Name
				}
				if i, ok := index[key]; ok {
					out[i].Value = attr.Value
					continue
				}
				index[key] = len(out)
				out = append(out, annotations.Attribute{Name: key, Value: attr.Value})
			}
		}
	}

	for i := len(typeMarkers) - 1; i >= 0; i-- {
		add(typeMarkers[i])
	}
	add(methodMarkers)
	return out
}

// Generate builds the attribute map expression. It reports false for an
// empty attribute set, in which case no statement is emitted.
func Generate(attrs []annotations.Attribute) (ir.Expr, bool) {
	if len(attrs) == 0 {
		return nil, false
	}
	return mapExpr(attrs), true
}

func mapExpr(attrs []annotations.Attribute) ir.Expr {
	if len(attrs) <= CompactLimit {
		args := make([]ir.Expr, 0, len(attrs)*2)
		for _, attr := range attrs {
			args = append(args, ir.String(attr.Name), valueExpr(attr.Value))
		}
		return ir.CallOf(runtime("AttributesOf"), args...)
	}

	entries := make([]ir.Expr, 0, len(attrs))
	for _, attr := range attrs {
		entries = append(entries, ir.CallOf(runtime("Attr"), ir.String(attr.Name), valueExpr(attr.Value)))
	}
	return ir.Call{Fun: runtime("AttributesOfEntries"), Args: entries, Multiline: true}
}

func valueExpr(v annotations.Value) ir.Expr {
	switch v.Kind {
	case annotations.IntValue:
		return ir.Lit{Value: v.Int}
	case annotations.FloatValue:
		return ir.Lit{Value: v.Float}
	case annotations.BoolValue:
		return ir.Lit{Value: v.Bool}
	case annotations.ListValue:
		elems := make([]ir.Expr, len(v.List))
		for i, item := range v.List {
			elems[i] = valueExpr(item)
		}
		return ir.SliceLit{Elem: ir.Ident(elementType(v.List)), Elems: elems}
	case annotations.MapValue:
		return mapExpr(v.Map)
	default:
		return ir.String(v.Str)
	}
}

// elementType picks a typed slice for homogeneous scalar lists
func elementType(items []annotations.Value) string {
	if len(items) == 0 {
		return "any"
	}
	kind := items[0].Kind
	for _, item := range items[1:] {
		if item.Kind != kind {
			return "any"
		}
	}
	switch kind {
	case annotations.StringValue:
		return "string"
	case annotations.IntValue:
		return "int"
	case annotations.FloatValue:
		return "float64"
	case annotations.BoolValue:
		return "bool"
	default:
		return "any"
	}
}

func runtime(name string) ir.Qual {
	return ir.Qual{Path: models.RuntimePackage, Name: name}
}
