package gbi

// GeometryMode is the RSP geometry-mode bitset.
type GeometryMode uint32

// Geometry mode bits (F3DEX2 layout).
const (
	ZBuffer          GeometryMode = 1 << 0
	Shade            GeometryMode = 1 << 2
	CullFront        GeometryMode = 1 << 9
	CullBack         GeometryMode = 1 << 10
	CullBoth                      = CullFront | CullBack
	Fog              GeometryMode = 1 << 16
	Lighting         GeometryMode = 1 << 17
	TextureGen       GeometryMode = 1 << 18
	TextureGenLinear GeometryMode = 1 << 19
	LOD              GeometryMode = 1 << 20
	ShadingSmooth    GeometryMode = 1 << 21
	Clipping         GeometryMode = 1 << 23
)

// Has reports whether every bit of flag is set.
func (g GeometryMode) Has(flag GeometryMode) bool { return g&flag == flag }

// G_MTX parameter bits as they appear after the push bit is un-inverted.
const (
	MtxNoPush     uint8 = 0x00
	MtxPush       uint8 = 0x01
	MtxMul        uint8 = 0x00
	MtxLoad       uint8 = 0x02
	MtxModelView  uint8 = 0x00
	MtxProjection uint8 = 0x04
)

// G_MOVEWORD indices.
const (
	MWMatrix    uint8 = 0x00
	MWNumLight  uint8 = 0x02
	MWClip      uint8 = 0x04
	MWSegment   uint8 = 0x06
	MWFog       uint8 = 0x08
	MWLightCol  uint8 = 0x0A
	MWForceMtx  uint8 = 0x0C
	MWPerspNorm uint8 = 0x0E
)

// G_MOVEMEM indices and light offsets.
const (
	MVMMtx     uint8 = 2
	MVPMtx     uint8 = 6
	MVViewport uint8 = 8
	MVLight    uint8 = 10
	MVPoint    uint8 = 12
	MVMatrix   uint8 = 14

	MVOLookAtX = 0 * 24
	MVOLookAtY = 1 * 24
	MVOLight0  = 2 * 24
)

// Tile indices and wrap flags used by G_SETTILE.
const (
	TxLoadTile   uint8 = 7
	TxRenderTile uint8 = 0
	TxNoMirror   uint8 = 0
	TxWrap       uint8 = 0
	TxMirror     uint8 = 1
	TxClamp      uint8 = 2
)

// Sizes of the memory-resident structures the microcode reads.
const (
	CommandSize  = 8
	VertexSize   = 16
	MatrixSize   = 64
	LightSize    = 16
	ViewportSize = 16
)
