// Package backend defines the collaborator hooks the RCP core calls into.
//
// The core never rasterizes. It decodes textures and synthesizes shader
// programs, then hands them to a Backend through a small set of hooks:
//
//	NewTexture() / UploadTexture(id, rgba, w, h) / SetSampler(id, desc)
//	ReleaseTexture(id)
//	CompileProgram(label, wgsl)
//
// Textures and programs are addressed by opaque IDs, never by pointers.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The recorder backend is registered on import of this package; the
// wgpu HAL backend registers itself when backend/gpu is imported:
//
//	import _ "github.com/gogpu/rcp/backend/gpu"
//
//	b, err := backend.Open("")          // best available
//	b, err := backend.Open("recorder") // a specific backend
//
// # Available Backends
//
//   - "recorder": in-memory, records every call (always available)
//   - "hal-noop": wgpu HAL on the noop device, compiles WGSL through naga
package backend
