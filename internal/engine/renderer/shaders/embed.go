// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader is the vertex shader for lit scene geometry.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades geometry with directional lights and cascaded
// shadows. Keywords select the PCF kernel and cascade blending.
//
//go:embed lit.frag
var LitFragmentShader string

// CasterVertexShader is the vertex shader for the shadow caster pass.
//
//go:embed caster.vert
var CasterVertexShader string

// CasterFragmentShader is the depth-only fragment shader for the shadow caster pass.
//
//go:embed caster.frag
var CasterFragmentShader string

// SkyVertexShader draws a fullscreen triangle at the far plane.
//
//go:embed sky.vert
var SkyVertexShader string

// SkyFragmentShader is the sky gradient.
//
//go:embed sky.frag
var SkyFragmentShader string

// LineVertexShader is the vertex shader for gizmo lines.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the flat colour fragment shader for gizmo lines.
//
//go:embed line.frag
var LineFragmentShader string
