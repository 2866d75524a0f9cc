// Package shaders holds the default GLSL sources of the mesh program.
package shaders

import "embed"

// FS contains every *.glsl file of this directory.
//
//go:embed *.glsl
var FS embed.FS
