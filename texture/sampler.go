package texture

import "github.com/gogpu/gputypes"

// Tile clamp/mirror flags (G_TX_*).
const (
	TxWrap   uint8 = 0
	TxMirror uint8 = 1
	TxClamp  uint8 = 2
)

// AddressMode translates a tile's cms/cmt flags. Clamp wins over mirror.
func AddressMode(cm uint8) gputypes.AddressMode {
	switch {
	case cm&TxClamp != 0:
		return gputypes.AddressModeClampToEdge
	case cm&TxMirror != 0:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeRepeat
	}
}

// Sampler builds the sampler descriptor for a tile.
func Sampler(cms, cmt uint8, linear bool) gputypes.SamplerDescriptor {
	filter := gputypes.FilterModeNearest
	if linear {
		filter = gputypes.FilterModeLinear
	}
	return gputypes.SamplerDescriptor{
		Label:         "rcp tile sampler",
		AddressModeU:  AddressMode(cms),
		AddressModeV:  AddressMode(cmt),
		AddressModeW:  gputypes.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  gputypes.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}
