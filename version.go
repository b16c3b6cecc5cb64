package toolshed

import _ "embed"

// Version is the release of the toolshed module, read from the VERSION file.
//
//go:embed VERSION
var Version string
