package mvc

import "strings"

// PathPartKind is the kind of a pattern segment
type PathPartKind int

const (
	StaticPart PathPartKind = iota
	ParameterPart
	WildcardPart
)

// PathPart is a single part of a route pattern
type PathPart struct {
	Kind PathPartKind
	// Value is the literal text of static parts and the variable name of
	// parameters
	Value string
	// Constraint is the regular expression after the colon in {name:re}
	Constraint string
}

// WildcardParam is the PathParam name of a trailing {*} or * segment
const WildcardParam = "*"

// ParsePattern splits a route pattern like /books/{id}/pages/{*} into
// parts. Unclosed braces are kept as static text.
func ParsePattern(pattern string) []PathPart {
	var parts []PathPart
	i := 0
	for i < len(pattern) {
		if pattern[i] != '{' {
			start := i
			for i < len(pattern) && pattern[i] != '{' {
				i++
			}
			static := pattern[start:i]
			if strings.HasSuffix(static, "/*") && i == len(pattern) {
				parts = append(parts,
					PathPart{Kind: StaticPart, Value: strings.TrimSuffix(static, "*")},
					PathPart{Kind: WildcardPart, Value: WildcardParam})
				continue
			}
			parts = append(parts, PathPart{Kind: StaticPart, Value: static})
			continue
		}

		end := matchingBrace(pattern, i)
		if end < 0 {
			parts = append(parts, PathPart{Kind: StaticPart, Value: pattern[i:]})
			break
		}
		content := pattern[i+1 : end]
		i = end + 1

		if content == "*" {
			parts = append(parts, PathPart{Kind: WildcardPart, Value: WildcardParam})
			continue
		}
		name, constraint, _ := strings.Cut(content, ":")
		parts = append(parts, PathPart{Kind: ParameterPart, Value: name, Constraint: constraint})
	}
	return parts
}

// matchingBrace returns the index of the brace closing the one at open.
// Braces inside a constraint nest.
func matchingBrace(pattern string, open int) int {
	depth := 0
	for j := open; j < len(pattern); j++ {
		switch pattern[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// ColonPattern rewrites a pattern to the :name syntax used by echo, gin
// and fiber. Wildcards become wildcard.
func ColonPattern(pattern, wildcard string) string {
	var sb strings.Builder
	for _, part := range ParsePattern(pattern) {
		switch part.Kind {
		case ParameterPart:
			sb.WriteString(":" + part.Value)
		case WildcardPart:
			sb.WriteString(wildcard)
		default:
			sb.WriteString(part.Value)
		}
	}
	return sb.String()
}

// BracePattern rewrites wildcards to the trailing * chi expects and keeps
// {name} and {name:re} variables as they are
func BracePattern(pattern string) string {
	var sb strings.Builder
	for _, part := range ParsePattern(pattern) {
		switch part.Kind {
		case ParameterPart:
			sb.WriteString("{" + part.Value)
			if part.Constraint != "" {
				sb.WriteString(":" + part.Constraint)
			}
			sb.WriteString("}")
		case WildcardPart:
			sb.WriteString("*")
		default:
			sb.WriteString(part.Value)
		}
	}
	return sb.String()
}

// PatternParams returns the variable names of a pattern in order
func PatternParams(pattern string) []string {
	var names []string
	for _, part := range ParsePattern(pattern) {
		switch part.Kind {
		case ParameterPart, WildcardPart:
			names = append(names, part.Value)
		}
	}
	return names
}
