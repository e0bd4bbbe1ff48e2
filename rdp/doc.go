// Package rdp holds the rasterizer half of the RCP: the packed other-mode
// word, tile descriptors and the texture-memory map, combiner parameters,
// constant colors, and the viewport and scissor in output pixels.
//
// State only records what the display list asked for. Translating it into
// GPU state (depth, blend, cull, samplers) is done by the helpers in this
// package when a triangle is emitted, so setting a mode never forces a
// flush by itself.
package rdp
