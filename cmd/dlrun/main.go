// Command dlrun executes a display list from a RAM dump and prints the draw
// calls it produces.
//
// Usage:
//
//	dlrun -ram dump.bin -addr 0x80100000 [-profile f3dex2e] [-backend hal-noop]
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gogpu/rcp"
	"github.com/gogpu/rcp/backend"
	_ "github.com/gogpu/rcp/backend/gpu" // registers hal-noop
	"github.com/gogpu/rcp/gbi"
)

// addrFlag parses addresses in any base strconv accepts.
type addrFlag uint32

func (a *addrFlag) String() string { return fmt.Sprintf("%#08x", uint32(*a)) }

func (a *addrFlag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*a = addrFlag(v)
	return nil
}

func main() {
	var (
		ram      = flag.String("ram", "", "RAM dump file")
		profile  = flag.String("profile", rcp.ProfileF3DEX2, "microcode profile")
		backName = flag.String("backend", backend.BackendRecorder, "backend name, empty for the best available")
		width    = flag.Int("width", 320, "output width")
		height   = flag.Int("height", 240, "output height")
		little   = flag.Bool("le", false, "dump is little-endian")
		verbose  = flag.Bool("v", false, "debug logging")
		frames   = flag.Int("frames", 1, "number of times to run the list")
		base     addrFlag
		addr     addrFlag
	)
	flag.Var(&base, "base", "physical address of the first byte of the dump")
	flag.Var(&addr, "addr", "display list address")
	flag.Parse()

	if *ram == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	rcp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	data, err := os.ReadFile(*ram)
	if err != nil {
		log.Fatalf("read dump: %v", err)
	}
	var order binary.ByteOrder = binary.BigEndian
	if *little {
		order = binary.LittleEndian
	}

	be, err := backend.Open(*backName)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	defer be.Close()

	r, err := rcp.New(gbi.NewFlatMemory(uint32(base), data, order), be,
		rcp.WithProfile(*profile),
		rcp.WithOutputSize(*width, *height),
	)
	if err != nil {
		log.Fatalf("rcp: %v", err)
	}

	for f := 0; f < *frames; f++ {
		r.Reset()
		runErr := r.Run(uint32(addr))
		calls := r.TakeDrawCalls()
		fmt.Printf("frame %d: %d draw calls\n", f, len(calls))
		for i := range calls {
			dc := &calls[i]
			fmt.Printf("  #%-3d tris=%-4d key=%s tex0=%d tex1=%d program=%d\n",
				i, dc.Triangles(), dc.State.Key, dc.State.Textures[0].Texture, dc.State.Textures[1].Texture, dc.State.Program)
		}
		if runErr != nil {
			fmt.Printf("  error: %v\n", runErr)
		}
	}

	s := r.Stats()
	fmt.Printf("instructions=%d unknown=%d triangles=%d culled=%d skipped=%d\n",
		s.Instructions, s.UnknownOpcodes, s.Triangles, s.Culled, s.Skipped)
	fmt.Printf("textures=%d (hits=%d misses=%d) programs=%d (hits=%d misses=%d)\n",
		s.Textures.Len, s.Textures.Hits, s.Textures.Misses, s.Programs, s.ProgramHits, s.ProgramMisses)
}
