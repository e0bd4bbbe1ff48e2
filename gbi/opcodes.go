package gbi

import "fmt"

// Opcode is the top byte of an instruction's first word.
type Opcode uint8

// RSP opcodes of the F3DEX2 microcode family.
const (
	OpNoop          Opcode = 0x00
	OpVertex        Opcode = 0x01
	OpModifyVertex  Opcode = 0x02
	OpCullDL        Opcode = 0x03
	OpBranchZ       Opcode = 0x04
	OpTri1          Opcode = 0x05
	OpTri2          Opcode = 0x06
	OpQuad          Opcode = 0x07
	OpLine3D        Opcode = 0x08
	OpSpecial3      Opcode = 0xD3
	OpSpecial2      Opcode = 0xD4
	OpSpecial1      Opcode = 0xD5
	OpDMAIO         Opcode = 0xD6
	OpTexture       Opcode = 0xD7
	OpPopMatrix     Opcode = 0xD8
	OpGeometryMode  Opcode = 0xD9
	OpMatrix        Opcode = 0xDA
	OpMoveWord      Opcode = 0xDB
	OpMoveMem       Opcode = 0xDC
	OpLoadUcode     Opcode = 0xDD
	OpDL            Opcode = 0xDE
	OpEndDL         Opcode = 0xDF
	OpSPNoop        Opcode = 0xE0
	OpRDPHalf1      Opcode = 0xE1
	OpSetOtherModeL Opcode = 0xE2
	OpSetOtherModeH Opcode = 0xE3
	OpRDPHalf2      Opcode = 0xF1
)

// RDP opcodes. These are shared by every microcode profile.
const (
	OpTexRect         Opcode = 0xE4
	OpTexRectFlip     Opcode = 0xE5
	OpRDPLoadSync     Opcode = 0xE6
	OpRDPPipeSync     Opcode = 0xE7
	OpRDPTileSync     Opcode = 0xE8
	OpRDPFullSync     Opcode = 0xE9
	OpSetKeyGB        Opcode = 0xEA
	OpSetKeyR         Opcode = 0xEB
	OpSetConvert      Opcode = 0xEC
	OpSetScissor      Opcode = 0xED
	OpSetPrimDepth    Opcode = 0xEE
	OpRDPSetOtherMode Opcode = 0xEF
	OpLoadTLUT        Opcode = 0xF0
	OpSetTileSize     Opcode = 0xF2
	OpLoadBlock       Opcode = 0xF3
	OpLoadTile        Opcode = 0xF4
	OpSetTile         Opcode = 0xF5
	OpFillRect        Opcode = 0xF6
	OpSetFillColor    Opcode = 0xF7
	OpSetFogColor     Opcode = 0xF8
	OpSetBlendColor   Opcode = 0xF9
	OpSetPrimColor    Opcode = 0xFA
	OpSetEnvColor     Opcode = 0xFB
	OpSetCombine      Opcode = 0xFC
	OpSetTextureImage Opcode = 0xFD
	OpSetDepthImage   Opcode = 0xFE
	OpSetColorImage   Opcode = 0xFF
)

var opcodeNames = map[Opcode]string{
	OpNoop:            "G_NOOP",
	OpVertex:          "G_VTX",
	OpModifyVertex:    "G_MODIFYVTX",
	OpCullDL:          "G_CULLDL",
	OpBranchZ:         "G_BRANCH_Z",
	OpTri1:            "G_TRI1",
	OpTri2:            "G_TRI2",
	OpQuad:            "G_QUAD",
	OpLine3D:          "G_LINE3D",
	OpSpecial3:        "G_SPECIAL_3",
	OpSpecial2:        "G_SPECIAL_2",
	OpSpecial1:        "G_SPECIAL_1",
	OpDMAIO:           "G_DMA_IO",
	OpTexture:         "G_TEXTURE",
	OpPopMatrix:       "G_POPMTX",
	OpGeometryMode:    "G_GEOMETRYMODE",
	OpMatrix:          "G_MTX",
	OpMoveWord:        "G_MOVEWORD",
	OpMoveMem:         "G_MOVEMEM",
	OpLoadUcode:       "G_LOAD_UCODE",
	OpDL:              "G_DL",
	OpEndDL:           "G_ENDDL",
	OpSPNoop:          "G_SPNOOP",
	OpRDPHalf1:        "G_RDPHALF_1",
	OpSetOtherModeL:   "G_SETOTHERMODE_L",
	OpSetOtherModeH:   "G_SETOTHERMODE_H",
	OpRDPHalf2:        "G_RDPHALF_2",
	OpTexRect:         "G_TEXRECT",
	OpTexRectFlip:     "G_TEXRECTFLIP",
	OpRDPLoadSync:     "G_RDPLOADSYNC",
	OpRDPPipeSync:     "G_RDPPIPESYNC",
	OpRDPTileSync:     "G_RDPTILESYNC",
	OpRDPFullSync:     "G_RDPFULLSYNC",
	OpSetKeyGB:        "G_SETKEYGB",
	OpSetKeyR:         "G_SETKEYR",
	OpSetConvert:      "G_SETCONVERT",
	OpSetScissor:      "G_SETSCISSOR",
	OpSetPrimDepth:    "G_SETPRIMDEPTH",
	OpRDPSetOtherMode: "G_RDPSETOTHERMODE",
	OpLoadTLUT:        "G_LOADTLUT",
	OpSetTileSize:     "G_SETTILESIZE",
	OpLoadBlock:       "G_LOADBLOCK",
	OpLoadTile:        "G_LOADTILE",
	OpSetTile:         "G_SETTILE",
	OpFillRect:        "G_FILLRECT",
	OpSetFillColor:    "G_SETFILLCOLOR",
	OpSetFogColor:     "G_SETFOGCOLOR",
	OpSetBlendColor:   "G_SETBLENDCOLOR",
	OpSetPrimColor:    "G_SETPRIMCOLOR",
	OpSetEnvColor:     "G_SETENVCOLOR",
	OpSetCombine:      "G_SETCOMBINE",
	OpSetTextureImage: "G_SETTIMG",
	OpSetDepthImage:   "G_SETZIMG",
	OpSetColorImage:   "G_SETCIMG",
}

// String returns the GBI mnemonic, or the hex value for unnamed opcodes.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("G_UNKNOWN(%#02x)", uint8(op))
}
