package registry

import "github.com/toyz/mvcgen/internal/router"

// Output receives the artifacts of a build
type Output interface {
	// WriteRouter renders and stores one router, returning where it went
	WriteRouter(r *router.Router) (string, error)
	// WriteManifest stores the service manifest
	WriteManifest(identifiers []string) error
}
