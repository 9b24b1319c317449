package parser

import "golang.org/x/tools/go/packages"

const (
	// MarkerPrefix starts every marker comment line
	MarkerPrefix = "//mvc::"

	// GeneratedFilePrefix and GeneratedFileSuffix frame generated router files
	GeneratedFilePrefix = "autogen_"
	GeneratedFileSuffix = "_router.go"
)

// LoadMode is what the host needs from go/packages
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports
