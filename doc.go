// Package rcp turns N64 display lists into batched draw calls for a modern
// GPU backend.
//
// # Overview
//
// An RCP walks a display list in emulated RAM and models the two halves of
// the N64 Reality Co-Processor: the RSP (matrices, lighting, fog and the
// vertex table) and the RDP (other modes, tiles, TMEM, colors and the color
// combiner). Triangles are transformed on the CPU, grouped by render state
// and returned as draw.DrawCall values. Textures and combiner programs are
// decoded once and handed to a backend.Backend through bounded caches.
//
// # Quick Start
//
//	mem := gbi.NewFlatMemory(0, ram, binary.BigEndian)
//	r, err := rcp.New(mem, backend.NewRecorder(),
//		rcp.WithProfile(rcp.ProfileF3DEX2),
//		rcp.WithOutputSize(640, 480),
//	)
//	if err != nil {
//		return err
//	}
//
//	r.Reset()
//	if err := r.Run(0x80100000); err != nil {
//		log.Printf("display list: %v", err)
//	}
//	for _, dc := range r.TakeDrawCalls() {
//		// encode dc for the GPU
//	}
//
// # Profiles
//
// The command table is selected by microcode profile: ProfileF3DEX2,
// ProfileF3DEX2E (extended rectangle coordinates) and ProfileF3DZEX2.
// Additional profiles can be added with RegisterProfile.
//
// # Errors
//
// Run stops at the first fatal condition and returns a *RunError carrying
// the command address and opcode. Use errors.Is with ErrRecursionLimit,
// ErrInstructionLimit or ErrAddressOutOfRange. Unknown opcodes, unsupported
// combiners and undecodable textures are logged through the package logger
// and skipped.
//
// # Concurrency
//
// An RCP is not safe for concurrent use. Independent instances may run in
// parallel; the logger and profile registry are safe to share.
package rcp
