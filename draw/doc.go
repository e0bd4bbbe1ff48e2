// Package draw turns emitted triangles into renderer-agnostic draw calls.
//
// Every triangle carries a RenderState snapshot: the compiled combiner
// program, texture bindings, depth, blend and cull configuration,
// viewport, scissor and the uniform values. The Accumulator appends
// triangles to an open batch while the state stays the same and closes it
// when the state changes or the batch reaches its triangle cap:
//
//	acc := draw.NewAccumulator(draw.DefaultMaxTriangles)
//	acc.Add(&state, tri)
//	calls := acc.Take()
//
// Layout describes the interleaved vertex buffer of a DrawCall and maps it
// onto a gputypes.VertexBufferLayout with the shader locations the
// combiner package generates.
package draw
