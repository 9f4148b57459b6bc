package templates

import (
	_ "embed"
)

//go:embed digest.html.tmpl
var DigestHTML string
