// Package gbi decodes the graphics binary interface: the two-word
// commands that make up a display list.
//
// A display list is a flat sequence of 8-byte instructions. The top byte of
// the first word holds the opcode; the remaining bits of both words carry
// packed fields or an address. [Cursor] walks a list through a [Memory]
// implementation, which resolves segmented addresses and performs
// bounds-checked reads, so malformed lists surface as errors instead of
// out-of-range accesses.
//
//	mem := gbi.NewFlatMemory(0, rdram, binary.BigEndian)
//	cur := gbi.NewCursor(mem, 0x1000)
//	for {
//	    cmd, err := cur.Next()
//	    if err != nil {
//	        break
//	    }
//	    fmt.Printf("%s\n", cmd)
//	}
package gbi
