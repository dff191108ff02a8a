package technique

import (
	"math"

	"github.com/gogpu/gputypes"
)

// FillMode selects how rasterized triangles are filled.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWireframe
)

// DepthWriteMask selects whether depth writes are enabled.
type DepthWriteMask uint8

const (
	DepthWriteMaskZero DepthWriteMask = iota
	DepthWriteMaskAll
)

// RasterizerDesc describes rasterizer state. The zero value is the default
// descriptor every factory starts from.
type RasterizerDesc struct {
	FillMode              FillMode
	CullMode              gputypes.CullMode
	FrontCounterClockwise bool

	DepthBias            int32
	DepthBiasClamp       float32
	SlopeScaledDepthBias float32
	DepthClipDisable     bool

	ScissorEnable         bool
	MultisampleEnable     bool
	AntialiasedLineEnable bool
}

// StencilOp is a stencil buffer update operation.
type StencilOp uint8

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrSat
	StencilOpDecrSat
	StencilOpInvert
	StencilOpIncr
	StencilOpDecr
)

// StencilOpDesc describes the stencil operations of one face.
type StencilOpDesc struct {
	FailOp      StencilOp
	DepthFailOp StencilOp
	PassOp      StencilOp
	Func        gputypes.CompareFunction
}

// DepthStencilDesc describes depth-stencil state.
type DepthStencilDesc struct {
	DepthEnable    bool
	DepthWriteMask DepthWriteMask
	DepthFunc      gputypes.CompareFunction

	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        StencilOpDesc
	BackFace         StencilOpDesc
}

// MaxRenderTargets is the number of simultaneously bound render targets a
// blend descriptor covers.
const MaxRenderTargets = 8

// RenderTargetBlendDesc describes blending for one render target.
type RenderTargetBlendDesc struct {
	BlendEnable bool

	SrcBlend  gputypes.BlendFactor
	DestBlend gputypes.BlendFactor
	BlendOp   gputypes.BlendOperation

	SrcBlendAlpha  gputypes.BlendFactor
	DestBlendAlpha gputypes.BlendFactor
	BlendOpAlpha   gputypes.BlendOperation

	WriteMask gputypes.ColorWriteMask
}

// BlendDesc describes blend state. With IndependentBlendEnable unset only
// RenderTarget[0] is meaningful for blending.
type BlendDesc struct {
	AlphaToCoverageEnable  bool
	IndependentBlendEnable bool
	RenderTarget           [MaxRenderTargets]RenderTargetBlendDesc
}

// Filter selects min, mag and mip filtering of a sampler.
type Filter struct {
	Min gputypes.FilterMode
	Mag gputypes.FilterMode
	Mip gputypes.FilterMode
}

// Common filters.
var (
	FilterMinMagMipPoint       = Filter{Min: gputypes.FilterModeNearest, Mag: gputypes.FilterModeNearest, Mip: gputypes.FilterModeNearest}
	FilterMinMagMipLinear      = Filter{Min: gputypes.FilterModeLinear, Mag: gputypes.FilterModeLinear, Mip: gputypes.FilterModeLinear}
	FilterMinMagLinearMipPoint = Filter{Min: gputypes.FilterModeLinear, Mag: gputypes.FilterModeLinear, Mip: gputypes.FilterModeNearest}
)

// SamplerDesc describes a sampler.
type SamplerDesc struct {
	Filter   Filter
	AddressU gputypes.AddressMode
	AddressV gputypes.AddressMode
	AddressW gputypes.AddressMode

	MipLODBias    float32
	MaxAnisotropy uint32

	// ComparisonFunc is CompareFunctionNever for non-comparison samplers.
	ComparisonFunc gputypes.CompareFunction
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

// DefaultRasterizerDesc returns the zero descriptor with fill, cull and
// winding applied.
func DefaultRasterizerDesc(fill FillMode, cull gputypes.CullMode, frontCCW bool) RasterizerDesc {
	return RasterizerDesc{
		FillMode:              fill,
		CullMode:              cull,
		FrontCounterClockwise: frontCCW,
	}
}

// DefaultDepthStencilDesc returns a descriptor with the given depth test and
// write mask. Depth compares with Greater (reversed depth); stencil is off.
func DefaultDepthStencilDesc(depthEnable bool, writeMask DepthWriteMask) DepthStencilDesc {
	return DepthStencilDesc{
		DepthEnable:    depthEnable,
		DepthWriteMask: writeMask,
		DepthFunc:      gputypes.CompareFunctionGreater,
	}
}

// DefaultBlendDesc returns a descriptor with blending off and every render
// target writing all channels.
func DefaultBlendDesc() BlendDesc {
	var desc BlendDesc
	desc.IndependentBlendEnable = false
	for i := range desc.RenderTarget {
		desc.RenderTarget[i].WriteMask = gputypes.ColorWriteMaskAll
	}
	return desc
}

// DefaultSamplerDesc returns a non-comparison sampler descriptor with one
// address mode on all axes and an unclamped LOD range.
func DefaultSamplerDesc(filter Filter, address gputypes.AddressMode) SamplerDesc {
	return SamplerDesc{
		Filter:         filter,
		AddressU:       address,
		AddressV:       address,
		AddressW:       address,
		ComparisonFunc: gputypes.CompareFunctionNever,
		MinLOD:         -math.MaxFloat32,
		MaxLOD:         math.MaxFloat32,
	}
}
