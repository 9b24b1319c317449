package parser

import (
	"context"

	"github.com/toyz/mvcgen/internal/models"
)

// PackageLoader loads the packages of a build and exposes them as a host
type PackageLoader interface {
	Load(ctx context.Context, patterns ...string) (*Graph, error)
}

var _ models.Host = (*Graph)(nil)
