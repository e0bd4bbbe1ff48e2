// Package combiner decodes the RDP color combiner and turns it into GPU
// programs.
//
// A SETCOMBINE command carries two cycles of (A-B)*C+D for the color and
// the alpha channel. Decode validates the raw mux values, NewKey folds in
// the other-mode state that specializes a program, and Compiler caches one
// compiled WGSL program per distinct Key:
//
//	p, err := combiner.Decode(w0, w1)
//	key := combiner.NewKey(p, combiner.KeyOptions{Alpha: true})
//	prog, err := compiler.Program(key)
//
// Per-vertex inputs (primitive, shade, environment, LOD fraction) are
// collected into at most MaxInputs slots; Program.Mapping tells the
// triangle emitter which value goes where.
package combiner
