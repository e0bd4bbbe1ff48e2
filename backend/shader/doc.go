// Package shader compiles generated WGSL programs to SPIR-V with the
// pure Go naga compiler.
//
//	m, err := shader.Compile("combiner", source, naga.DefaultOptions())
//	// m.SPIRV holds little-endian 32-bit words
//
// Compiler adapts this to backend.ProgramCompiler so a combiner.Compiler
// can be fed from it directly.
package shader
