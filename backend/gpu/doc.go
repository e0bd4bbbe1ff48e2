// Package gpu implements the RCP backend hooks on a wgpu HAL device.
//
// Textures become RGBA8 sampled textures uploaded through the queue, and
// combiner programs are compiled to SPIR-V and wrapped in shader modules.
// A renderer reads the HAL objects back with Binding and ShaderModule when
// it records draw calls.
//
// Importing the package registers the "hal-noop" backend, which runs on
// the wgpu noop device:
//
//	import _ "github.com/gogpu/rcp/backend/gpu"
//
//	be, err := backend.Open(backend.BackendHALNoop)
package gpu
