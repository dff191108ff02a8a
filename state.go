package technique

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// CreateRasterizerState replaces the held rasterizer state with one built
// from desc.
func (t *Technique) CreateRasterizerState(desc *RasterizerDesc) error {
	t.releaseRasterizer()
	if t.device == nil {
		return ErrNoDevice
	}
	state, err := t.device.CreateRasterizerState(desc)
	if err != nil {
		return deviceError("CreateRasterizerState", err)
	}
	t.rasterizer = state
	t.logger().Debug("created rasterizer state",
		slog.Int("fill", int(desc.FillMode)),
		slog.Int("cull", int(desc.CullMode)))
	return nil
}

// CreateDefaultRasterizerState replaces the held rasterizer state with the
// default descriptor plus fill mode, cull mode and winding.
func (t *Technique) CreateDefaultRasterizerState(fill FillMode, cull gputypes.CullMode, frontCCW bool) error {
	desc := DefaultRasterizerDesc(fill, cull, frontCCW)
	return t.CreateRasterizerState(&desc)
}

// CreateDepthStencilState replaces the held depth-stencil state with one
// built from desc.
func (t *Technique) CreateDepthStencilState(desc *DepthStencilDesc) error {
	t.releaseDepthStencil()
	if t.device == nil {
		return ErrNoDevice
	}
	state, err := t.device.CreateDepthStencilState(desc)
	if err != nil {
		return deviceError("CreateDepthStencilState", err)
	}
	t.depthStencil = state
	t.logger().Debug("created depth-stencil state",
		slog.Bool("depth", desc.DepthEnable),
		slog.Bool("stencil", desc.StencilEnable))
	return nil
}

// CreateDefaultDepthState replaces the held depth-stencil state with a
// Greater depth test (reversed depth), the given write mask and no stencil.
func (t *Technique) CreateDefaultDepthState(depthEnable bool, writeMask DepthWriteMask) error {
	desc := DefaultDepthStencilDesc(depthEnable, writeMask)
	return t.CreateDepthStencilState(&desc)
}

// CreateBlendState replaces the held blend state with one built from desc.
func (t *Technique) CreateBlendState(desc *BlendDesc) error {
	t.releaseBlend()
	if t.device == nil {
		return ErrNoDevice
	}
	state, err := t.device.CreateBlendState(desc)
	if err != nil {
		return deviceError("CreateBlendState", err)
	}
	t.blend = state
	t.logger().Debug("created blend state", slog.Bool("independent", desc.IndependentBlendEnable))
	return nil
}

// CreateDefaultBlendState replaces the held blend state with blending off
// and all channels written on every render target.
func (t *Technique) CreateDefaultBlendState() error {
	desc := DefaultBlendDesc()
	return t.CreateBlendState(&desc)
}

// CreateSampler creates a sampler with filter and one address mode on all
// three axes. The sampler is not held by the technique: the caller owns it
// and must Release it.
func (t *Technique) CreateSampler(filter Filter, address gputypes.AddressMode) (Sampler, error) {
	if t.device == nil {
		return nil, ErrNoDevice
	}
	desc := DefaultSamplerDesc(filter, address)
	sampler, err := t.device.CreateSampler(&desc)
	if err != nil {
		return nil, deviceError("CreateSampler", err)
	}
	return sampler, nil
}
