package rcp

import (
	"bytes"
	"testing"

	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/rsp"
	"github.com/gogpu/rcp/texture"
)

// loadTexture loads a 4x4 RGBA16 texture from texAddr into tile.
func loadTexture(tile uint8) []gbi.Command {
	rgba, s16 := uint8(texture.FormatRGBA), uint8(texture.Size16b)
	return []gbi.Command{
		gbi.SetImage(gbi.OpSetTextureImage, rgba, s16, 1, texAddr),
		gbi.SetTile(gbi.TileParams{Format: rgba, Size: s16, Tile: 7}),
		gbi.LoadBlock(7, 0, 0, 15, 0),
		gbi.SetTile(gbi.TileParams{Format: rgba, Size: s16, Line: 1, Tile: tile}),
		gbi.SetTileSize(tile, 0, 0, 3<<2, 3<<2),
	}
}

// texturedImage returns an image with a white 4x4 texture and testTriangle
// carrying texture coordinates.
func texturedImage() *testImage {
	img := newTestImage()
	img.put(texAddr, bytes.Repeat([]byte{0xFF}, 4*4*2))
	vs := append([]rsp.Vertex(nil), testTriangle...)
	// Coordinates are halved by the G_TEXTURE scale below.
	vs[1].TexCoord = [2]int16{8 << 5, 0}
	vs[2].TexCoord = [2]int16{0, 8 << 5}
	vs[3].TexCoord = [2]int16{8 << 5, 8 << 5}
	img.vertices(vtxAddr, vs...)
	return img
}

func texturedList(tail ...gbi.Command) []gbi.Command {
	cmds := loadTexture(0)
	cmds = append(cmds,
		gbi.Texture(0x8000, 0x8000, 0, 0, true),
		combiner.Modulate.Command(),
		gbi.Vertex(vtxAddr, 4, 0),
	)
	return append(cmds, tail...)
}

func TestTexturedTriangle(t *testing.T) {
	img := texturedImage()
	img.list(dlAddr, texturedList(gbi.Tri1(0, 1, 2), gbi.EndDL())...)
	r, rec := newTestRCP(t, img)

	calls := run(t, r)
	if len(calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(calls))
	}
	st := calls[0].State
	if !st.Key.Flags.Has(combiner.FlagTexture0) {
		t.Fatal("key does not sample texture 0")
	}
	b := st.Textures[0]
	if b.Texture == 0 || b.Width != 4 || b.Height != 4 {
		t.Errorf("binding = %+v, want 4x4 uploaded texture", b)
	}
	tex, ok := rec.Texture(b.Texture)
	if !ok {
		t.Fatalf("texture %d not recorded", b.Texture)
	}
	if got, want := len(tex.Data), 4*4*4; got != want {
		t.Errorf("uploaded %d bytes, want %d", got, want)
	}
	for i, v := range tex.Data {
		if v != 0xFF {
			t.Fatalf("texel byte %d = %#x, want 0xff", i, v)
		}
	}

	// Vertex 1 sits at s = 4 texels: u = 1 on a 4 texel wide tile.
	stride := st.Layout.Stride()
	if got := calls[0].Vertices[stride+8]; got != 1 {
		t.Errorf("u of vertex 1 = %v, want 1", got)
	}
}

func TestTextureUploadedOnce(t *testing.T) {
	img := texturedImage()
	img.list(dlAddr, texturedList(gbi.Tri2(0, 1, 2, 1, 3, 2), gbi.EndDL())...)
	r, rec := newTestRCP(t, img)

	run(t, r)
	run(t, r)
	if got := rec.Stats().Uploads; got != 1 {
		t.Errorf("uploads = %d, want 1", got)
	}
	s := r.Stats().Textures
	if s.Misses != 1 {
		t.Errorf("texture cache misses = %d, want 1", s.Misses)
	}
}

func TestTextureReloadedAfterPurge(t *testing.T) {
	img := texturedImage()
	img.list(dlAddr, texturedList(gbi.Tri1(0, 1, 2), gbi.EndDL())...)
	r, rec := newTestRCP(t, img)

	run(t, r)
	r.PurgeCaches()
	run(t, r)
	if got := rec.Stats().Uploads; got != 2 {
		t.Errorf("uploads = %d, want 2", got)
	}
	if got := len(rec.Released()); got != 1 {
		t.Errorf("released textures = %d, want 1", got)
	}
}

func TestMissingTextureSkipsTriangle(t *testing.T) {
	img := texturedImage()
	img.list(dlAddr,
		combiner.Modulate.Command(),
		gbi.Vertex(vtxAddr, 3, 0),
		gbi.Tri1(0, 1, 2),
		gbi.EndDL(),
	)
	r, _ := newTestRCP(t, img)

	if calls := run(t, r); len(calls) != 0 {
		t.Errorf("draw calls = %d, want 0", len(calls))
	}
	if got := r.Stats().Skipped; got != 1 {
		t.Errorf("Skipped = %d, want 1", got)
	}
}

func TestCombinerInputs(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr,
		gbi.SetPrimColor(0, 0, 255, 0, 0, 255),
		flatCombiner(combiner.MuxPrimitive, combiner.AMuxPrimitive).Command(),
		gbi.Vertex(vtxAddr, 3, 0),
		gbi.Tri1(0, 1, 2),
		gbi.EndDL(),
	)
	r, _ := newTestRCP(t, img)

	calls := run(t, r)
	if len(calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(calls))
	}
	st := calls[0].State
	if st.Layout.Inputs == 0 {
		t.Fatal("layout has no combiner inputs")
	}
	if got := st.Uniforms.PrimColor; got != [4]float32{1, 0, 0, 1} {
		t.Errorf("PrimColor uniform = %v, want [1 0 0 1]", got)
	}
	// The first input follows position and shade color.
	in := calls[0].Vertices[8:11]
	if in[0] != 1 || in[1] != 0 || in[2] != 0 {
		t.Errorf("input 0 = %v, want primitive color", in)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{-1, 0},
		{0.25, 0.25},
		{2, 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
