package rcp

import (
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/rcp/gbi"
)

// Built-in microcode profiles.
const (
	ProfileF3DEX2  = "f3dex2"
	ProfileF3DEX2E = "f3dex2e"
	ProfileF3DZEX2 = "f3dzex2"
)

// Handler executes one command. Multi-word commands read their trailing
// words from cur, which is positioned after cmd.
type Handler func(r *RCP, cur *gbi.Cursor, cmd gbi.Command) (gbi.Result, error)

// Table maps opcodes to handlers. Opcodes without an entry are skipped.
type Table map[gbi.Opcode]Handler

// Profile installs the opcode handlers of one microcode variant.
type Profile interface {
	Name() string
	Install(t Table)
}

// profiles holds registered microcode profiles.
var profiles = gpucontext.NewRegistry[Profile](
	gpucontext.WithPriority(ProfileF3DEX2, ProfileF3DEX2E, ProfileF3DZEX2),
)

func init() {
	RegisterProfile(ProfileF3DEX2, func() Profile { return f3dex2{} })
	RegisterProfile(ProfileF3DEX2E, func() Profile { return f3dex2e{} })
	RegisterProfile(ProfileF3DZEX2, func() Profile { return f3dzex2{} })
}

// RegisterProfile registers a profile factory under name, replacing any
// previous registration.
func RegisterProfile(name string, factory func() Profile) {
	profiles.Register(name, factory)
}

// Profiles returns the registered profile names, sorted.
func Profiles() []string {
	names := profiles.Available()
	sort.Strings(names)
	return names
}

// buildTable resolves a profile name into a fresh dispatch table. An empty
// name selects the highest-priority profile.
func buildTable(name string) (Profile, Table, error) {
	var p Profile
	if name == "" {
		p = profiles.Best()
	} else {
		p = profiles.Get(name)
	}
	if p == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	t := make(Table)
	p.Install(t)
	return p, t, nil
}

// f3dex2 is the base F3DEX2 command set.
type f3dex2 struct{}

func (f3dex2) Name() string { return ProfileF3DEX2 }

func (f3dex2) Install(t Table) {
	t[gbi.OpNoop] = opNoop
	t[gbi.OpSPNoop] = opNoop
	t[gbi.OpMatrix] = opMatrix
	t[gbi.OpPopMatrix] = opPopMatrix
	t[gbi.OpMoveMem] = opMoveMem
	t[gbi.OpMoveWord] = opMoveWord
	t[gbi.OpTexture] = opTexture
	t[gbi.OpVertex] = opVertex
	t[gbi.OpDL] = opDisplayList
	t[gbi.OpEndDL] = opEndDL
	t[gbi.OpGeometryMode] = opGeometryMode
	t[gbi.OpTri1] = opTri1
	t[gbi.OpTri2] = opTri2

	t[gbi.OpSetOtherModeL] = opSetOtherModeL
	t[gbi.OpSetOtherModeH] = opSetOtherModeH
	t[gbi.OpSetTextureImage] = opSetTextureImage
	t[gbi.OpLoadBlock] = opLoadBlock
	t[gbi.OpLoadTile] = opLoadTile
	t[gbi.OpLoadTLUT] = opLoadTLUT
	t[gbi.OpSetTile] = opSetTile
	t[gbi.OpSetTileSize] = opSetTileSize
	t[gbi.OpSetScissor] = opSetScissor
	t[gbi.OpSetCombine] = opSetCombine
	t[gbi.OpSetConvert] = opSetConvert
	t[gbi.OpSetKeyR] = opSetKeyR
	t[gbi.OpSetKeyGB] = opSetKeyGB
	t[gbi.OpSetPrimDepth] = opSetPrimDepth
	for _, op := range []gbi.Opcode{gbi.OpSetEnvColor, gbi.OpSetPrimColor, gbi.OpSetBlendColor, gbi.OpSetFogColor} {
		t[op] = opSetColor
	}
	t[gbi.OpSetFillColor] = opSetFillColor
	t[gbi.OpSetDepthImage] = opSetImage
	t[gbi.OpSetColorImage] = opSetImage
	t[gbi.OpTexRect] = opTexRect
	t[gbi.OpTexRectFlip] = opTexRect
	t[gbi.OpFillRect] = opFillRect
	for _, op := range []gbi.Opcode{gbi.OpRDPLoadSync, gbi.OpRDPPipeSync, gbi.OpRDPTileSync, gbi.OpRDPFullSync} {
		t[op] = opNoop
	}
	// Stray RDPHALF words and G_CULLDL never change output.
	t[gbi.OpRDPHalf1] = opNoop
	t[gbi.OpRDPHalf2] = opNoop
	t[gbi.OpCullDL] = opNoop
}

// f3dex2e widens rectangle coordinates to 24 bits, spreading TEXRECT over
// three and FILLRECT over two commands.
type f3dex2e struct{ f3dex2 }

func (f3dex2e) Name() string { return ProfileF3DEX2E }

func (p f3dex2e) Install(t Table) {
	p.f3dex2.Install(t)
	t[gbi.OpTexRect] = opTexRectWide
	t[gbi.OpTexRectFlip] = opTexRectWide
	t[gbi.OpFillRect] = opFillRectWide
}

// f3dzex2 shares the F3DEX2 command table.
type f3dzex2 struct{ f3dex2 }

func (f3dzex2) Name() string { return ProfileF3DZEX2 }
