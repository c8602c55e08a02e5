package shaders

import (
	_ "embed"
)

//go:embed lighting.wgsl
var LightingWGSL string
