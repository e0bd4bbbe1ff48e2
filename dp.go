package rcp

import (
	"errors"

	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/gbi"
)

// RDP command handlers. Most of them only stage state; nothing is flushed
// until a triangle needs a different render state.

func opSetOtherModeL(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	if !r.RDP.SetOtherModeL(cmd.W0, cmd.W1) {
		r.logger.Warn("rcp: othermode_l window out of range", "w0", cmd.W0)
	}
	return gbi.Next(), nil
}

func opSetOtherModeH(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	if !r.RDP.SetOtherModeH(cmd.W0, cmd.W1) {
		r.logger.Warn("rcp: othermode_h window out of range", "w0", cmd.W0)
	}
	return gbi.Next(), nil
}

func opSetCombine(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	err := r.RDP.SetCombine(cmd.W0, cmd.W1)
	switch {
	case err == nil:
	case errors.Is(err, combiner.ErrUnsupported):
		r.logger.Warn("rcp: combiner not supported", "err", err)
	default:
		return gbi.Result{}, err
	}
	return gbi.Next(), nil
}

func opSetTextureImage(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetTextureImage(cmd.W0, r.mem.Resolve(cmd.W1))
	return gbi.Next(), nil
}

func opSetImage(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetImage(cmd.Opcode(), cmd.W0, r.mem.Resolve(cmd.W1))
	return gbi.Next(), nil
}

func opSetTile(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetTile(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetTileSize(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetTileSize(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opLoadBlock(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.LoadBlock(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opLoadTile(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.LoadTile(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opLoadTLUT(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.LoadTLUT(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetColor(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetColor(cmd.Opcode(), cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetFillColor(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetFillColor(cmd.W1)
	return gbi.Next(), nil
}

func opSetScissor(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetScissor(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetConvert(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetConvert(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetKeyR(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetKeyR(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetKeyGB(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetKeyGB(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}

func opSetPrimDepth(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RDP.SetPrimDepth(cmd.W0, cmd.W1)
	return gbi.Next(), nil
}
