package models

import "github.com/toyz/mvcgen/internal/annotations"

// TypeGraph is the read-only view of the host program the registry needs
type TypeGraph interface {
	// DeclaredMethods returns the methods declared directly on t, in
	// source order.
	DeclaredMethods(t *ControllerType) ([]*ActionMethod, error)
	// DirectSupertype returns the embedded controller t inherits from, or
	// nil when there is none.
	DirectSupertype(t *ControllerType) (*ControllerType, error)
	// MarkersOn returns the markers attached to a type, method or parameter.
	MarkersOn(e Element) []annotations.Marker
	// IsAbstract reports whether t only feeds inheritance.
	IsAbstract(t *ControllerType) bool
}

// Round is one batch of marked elements delivered by the host
type Round struct {
	Label          string
	Elements       []Element
	ProcessingOver bool
}

// Host is a TypeGraph that also knows how to split its elements into rounds
type Host interface {
	TypeGraph
	Rounds() []Round
}

// RuntimePackage is the import path generated routers program against
const RuntimePackage = "github.com/toyz/mvcgen/pkg/mvc"

// Runtime returns a TypeRef for a named type of the runtime package
func Runtime(name string, args ...TypeRef) TypeRef {
	ref := Named(RuntimePackage, name, args...)
	ref.Underlying = KindInterface
	return ref
}
