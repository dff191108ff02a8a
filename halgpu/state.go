package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/technique"
)

// RasterizerState is a validated rasterizer descriptor.
type RasterizerState struct {
	desc technique.RasterizerDesc
}

// CreateRasterizerState validates desc against WebGPU. Scissor, multisample
// and line antialiasing switches are accepted and ignored: WebGPU always
// scissors and derives multisampling from the render target. Depth bias is
// not translated.
func (d *Device) CreateRasterizerState(desc *technique.RasterizerDesc) (technique.RasterizerState, error) {
	switch {
	case desc.FillMode == technique.FillWireframe:
		return nil, fmt.Errorf("%w: wireframe fill", ErrUnsupported)
	case desc.DepthClipDisable:
		return nil, fmt.Errorf("%w: disabled depth clipping", ErrUnsupported)
	case desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0 || desc.DepthBiasClamp != 0:
		return nil, fmt.Errorf("%w: depth bias", ErrUnsupported)
	}
	return &RasterizerState{desc: *desc}, nil
}

// Release does nothing; the state owns no GPU object.
func (s *RasterizerState) Release() {}

// Desc returns the descriptor the state was created from.
func (s *RasterizerState) Desc() technique.RasterizerDesc { return s.desc }

// Primitive returns the WebGPU primitive state for topology.
func (s *RasterizerState) Primitive(topology gputypes.PrimitiveTopology) gputypes.PrimitiveState {
	front := gputypes.FrontFaceCW
	if s.desc.FrontCounterClockwise {
		front = gputypes.FrontFaceCCW
	}
	return gputypes.PrimitiveState{
		Topology:  topology,
		FrontFace: front,
		CullMode:  s.desc.CullMode,
	}
}

// DepthStencilState is a depth-stencil descriptor.
type DepthStencilState struct {
	desc technique.DepthStencilDesc
}

// CreateDepthStencilState snapshots desc.
func (d *Device) CreateDepthStencilState(desc *technique.DepthStencilDesc) (technique.DepthStencilState, error) {
	for _, face := range [...]technique.StencilOpDesc{desc.FrontFace, desc.BackFace} {
		for _, op := range [...]technique.StencilOp{face.FailOp, face.DepthFailOp, face.PassOp} {
			if _, err := stencilOp(op); err != nil {
				return nil, err
			}
		}
	}
	return &DepthStencilState{desc: *desc}, nil
}

// Release does nothing; the state owns no GPU object.
func (s *DepthStencilState) Release() {}

// Desc returns the descriptor the state was created from.
func (s *DepthStencilState) Desc() technique.DepthStencilDesc { return s.desc }

// HAL returns the pipeline depth-stencil state for an attachment of format.
// A disabled depth test compares Always without writing; disabled stenciling
// keeps the buffer untouched.
func (s *DepthStencilState) HAL(format gputypes.TextureFormat) *hal.DepthStencilState {
	ds := &hal.DepthStencilState{
		Format:       format,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: keepFace(),
		StencilBack:  keepFace(),
	}
	if s.desc.DepthEnable {
		ds.DepthCompare = s.desc.DepthFunc
		ds.DepthWriteEnabled = s.desc.DepthWriteMask == technique.DepthWriteMaskAll
	}
	if s.desc.StencilEnable {
		ds.StencilFront = stencilFace(s.desc.FrontFace)
		ds.StencilBack = stencilFace(s.desc.BackFace)
		ds.StencilReadMask = uint32(s.desc.StencilReadMask)
		ds.StencilWriteMask = uint32(s.desc.StencilWriteMask)
	}
	return ds
}

func keepFace() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

func stencilFace(f technique.StencilOpDesc) hal.StencilFaceState {
	fail, _ := stencilOp(f.FailOp)
	depthFail, _ := stencilOp(f.DepthFailOp)
	pass, _ := stencilOp(f.PassOp)
	return hal.StencilFaceState{
		Compare:     f.Func,
		FailOp:      fail,
		DepthFailOp: depthFail,
		PassOp:      pass,
	}
}

var stencilOps = [...]hal.StencilOperation{
	technique.StencilOpKeep:    hal.StencilOperationKeep,
	technique.StencilOpZero:    hal.StencilOperationZero,
	technique.StencilOpReplace: hal.StencilOperationReplace,
	technique.StencilOpIncrSat: hal.StencilOperationIncrementClamp,
	technique.StencilOpDecrSat: hal.StencilOperationDecrementClamp,
	technique.StencilOpInvert:  hal.StencilOperationInvert,
	technique.StencilOpIncr:    hal.StencilOperationIncrementWrap,
	technique.StencilOpDecr:    hal.StencilOperationDecrementWrap,
}

func stencilOp(op technique.StencilOp) (hal.StencilOperation, error) {
	if int(op) >= len(stencilOps) {
		return hal.StencilOperationKeep, fmt.Errorf("halgpu: unknown stencil op %d", op)
	}
	return stencilOps[op], nil
}

// BlendState is a blend descriptor.
type BlendState struct {
	desc technique.BlendDesc
}

// CreateBlendState snapshots desc. AlphaToCoverageEnable is not translated.
func (d *Device) CreateBlendState(desc *technique.BlendDesc) (technique.BlendState, error) {
	return &BlendState{desc: *desc}, nil
}

// Release does nothing; the state owns no GPU object.
func (s *BlendState) Release() {}

// Desc returns the descriptor the state was created from.
func (s *BlendState) Desc() technique.BlendDesc { return s.desc }

// Target returns the blend and write mask of render target i. Without
// independent blending every target uses RenderTarget[0].
func (s *BlendState) Target(i int) (*gputypes.BlendState, gputypes.ColorWriteMask) {
	if !s.desc.IndependentBlendEnable || i < 0 || i >= technique.MaxRenderTargets {
		i = 0
	}
	rt := s.desc.RenderTarget[i]
	if !rt.BlendEnable {
		return nil, rt.WriteMask
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: rt.SrcBlend,
			DstFactor: rt.DestBlend,
			Operation: rt.BlendOp,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: rt.SrcBlendAlpha,
			DstFactor: rt.DestBlendAlpha,
			Operation: rt.BlendOpAlpha,
		},
	}, rt.WriteMask
}

// Sampler is a HAL sampler.
type Sampler struct {
	device hal.Device
	raw    hal.Sampler
	desc   technique.SamplerDesc
}

// CreateSampler creates a HAL sampler. Comparison samplers, anisotropy and
// LOD bias are not translated; ComparisonFunc must be Never or unset. The LOD
// range is clamped into [0, maxLOD].
func (d *Device) CreateSampler(desc *technique.SamplerDesc) (technique.Sampler, error) {
	if desc.ComparisonFunc != 0 && desc.ComparisonFunc != gputypes.CompareFunctionNever {
		return nil, fmt.Errorf("%w: comparison sampler", ErrUnsupported)
	}
	raw, err := d.raw.CreateSampler(&hal.SamplerDescriptor{
		Label:        "technique_sampler",
		AddressModeU: desc.AddressU,
		AddressModeV: desc.AddressV,
		AddressModeW: desc.AddressW,
		MagFilter:    desc.Filter.Mag,
		MinFilter:    desc.Filter.Min,
		MipmapFilter: desc.Filter.Mip,
		LodMinClamp:  clampLOD(desc.MinLOD),
		LodMaxClamp:  clampLOD(desc.MaxLOD),
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	return &Sampler{device: d.raw, raw: raw, desc: *desc}, nil
}

// Release destroys the sampler. Further calls do nothing.
func (s *Sampler) Release() {
	if s.raw == nil {
		return
	}
	s.device.DestroySampler(s.raw)
	s.raw = nil
}

// Desc returns the descriptor the sampler was created from.
func (s *Sampler) Desc() technique.SamplerDesc { return s.desc }

// Raw returns the HAL sampler, or nil after Release.
func (s *Sampler) Raw() hal.Sampler { return s.raw }

// maxLOD is the largest LOD clamp WebGPU accepts.
const maxLOD = 32

func clampLOD(v float32) float32 {
	return min(max(v, 0), maxLOD)
}
