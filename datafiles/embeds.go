// Package datafiles holds files served or read by the binaries. ROM dumps
// placed here are found by the paths package but are never embedded.
package datafiles

import _ "embed"

// IndexHTML is the html/template of a character's image listing.
//
//go:embed index.html
var IndexHTML string
