package annotations

import (
	"strings"
	"unicode"
)

// Prefix introduces a marker inside a Go comment
const Prefix = "mvc::"

// ValueAttribute holds positional marker values
const ValueAttribute = "value"

// DefaultDispatchQueue is used when a dispatch marker names no queue
const DefaultDispatchQueue = "worker"

var catalog = map[string]Category{
	"GET":        HTTPVerb,
	"POST":       HTTPVerb,
	"PUT":        HTTPVerb,
	"DELETE":     HTTPVerb,
	"PATCH":      HTTPVerb,
	"HEAD":       HTTPVerb,
	"OPTIONS":    HTTPVerb,
	"TRACE":      HTTPVerb,
	"path":       Path,
	"produces":   Produces,
	"consumes":   Consumes,
	"dispatch":   Dispatch,
	"pathparam":  PathParam,
	"query":      QueryParam,
	"header":     HeaderParam,
	"cookie":     CookieParam,
	"form":       FormParam,
	"session":    SessionParam,
	"flash":      FlashParam,
	"param":      GenericLookup,
	"controller": Controller,
	"abstract":   Controller,
}

var parameterSources = map[Category]bool{
	PathParam:     true,
	QueryParam:    true,
	HeaderParam:   true,
	CookieParam:   true,
	FormParam:     true,
	SessionParam:  true,
	FlashParam:    true,
	GenericLookup: true,
}

// Lookup classifies a marker identifier. Identifiers outside the catalog
// that start with an upper-case letter are custom attribute markers.
func Lookup(identifier string) Category {
	if c, ok := catalog[identifier]; ok {
		return c
	}
	if IsNullable(identifier) || IsNonNull(identifier) {
		return Nullability
	}
	last := identifier
	if i := strings.LastIndexByte(identifier, '.'); i >= 0 {
		last = identifier[i+1:]
	}
	if last != "" && unicode.IsUpper([]rune(last)[0]) {
		return Custom
	}
	return UnknownCategory
}

// Identifiers returns the catalog identifiers registered for a category
func Identifiers(c Category) []string {
	var out []string
	for _, id := range orderedIdentifiers {
		if catalog[id] == c {
			out = append(out, id)
		}
	}
	return out
}

var orderedIdentifiers = []string{
	"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE",
	"path", "produces", "consumes", "dispatch",
	"pathparam", "query", "header", "cookie", "form", "session", "flash", "param",
	"controller", "abstract",
}

// IsParameterSource reports whether markers of this category bind a parameter
func IsParameterSource(c Category) bool {
	return parameterSources[c]
}

// IsParameterLevel reports whether a marker in a method doc targets one of
// the method's parameters.
func IsParameterLevel(c Category) bool {
	return IsParameterSource(c) || c == Nullability
}

// IsNullable reports whether the identifier marks a value as nullable
func IsNullable(identifier string) bool {
	return strings.HasSuffix(strings.ToLower(identifier), "nullable")
}

// IsNonNull reports whether the identifier marks a value as non-null
func IsNonNull(identifier string) bool {
	id := strings.ToLower(identifier)
	return strings.HasSuffix(id, "nonnull") || strings.HasSuffix(id, "notnull")
}
