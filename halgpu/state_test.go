package halgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/technique"
)

func TestCreateRasterizerStateUnsupported(t *testing.T) {
	dev := NewDevice(newFakeDevice())

	tests := []struct {
		name string
		desc technique.RasterizerDesc
	}{
		{"wireframe", technique.RasterizerDesc{FillMode: technique.FillWireframe}},
		{"depth clip", technique.RasterizerDesc{DepthClipDisable: true}},
		{"depth bias", technique.RasterizerDesc{DepthBias: 4}},
		{"slope bias", technique.RasterizerDesc{SlopeScaledDepthBias: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dev.CreateRasterizerState(&tt.desc); !errors.Is(err, ErrUnsupported) {
				t.Fatalf("err = %v, want ErrUnsupported", err)
			}
		})
	}
}

func TestRasterizerPrimitive(t *testing.T) {
	dev := NewDevice(newFakeDevice())
	desc := technique.DefaultRasterizerDesc(technique.FillSolid, gputypes.CullModeFront, false)
	desc.ScissorEnable = true
	obj, err := dev.CreateRasterizerState(&desc)
	if err != nil {
		t.Fatal(err)
	}
	prim := obj.(*RasterizerState).Primitive(gputypes.PrimitiveTopologyTriangleList)
	want := gputypes.PrimitiveState{
		Topology:  gputypes.PrimitiveTopologyTriangleList,
		FrontFace: gputypes.FrontFaceCW,
		CullMode:  gputypes.CullModeFront,
	}
	if prim != want {
		t.Errorf("Primitive() = %+v, want %+v", prim, want)
	}
	if obj.Desc() != desc {
		t.Error("Desc() differs from the creation descriptor")
	}
}

func TestDepthStencilHAL(t *testing.T) {
	dev := NewDevice(newFakeDevice())

	t.Run("depth off", func(t *testing.T) {
		desc := technique.DefaultDepthStencilDesc(false, technique.DepthWriteMaskAll)
		obj, err := dev.CreateDepthStencilState(&desc)
		if err != nil {
			t.Fatal(err)
		}
		ds := obj.(*DepthStencilState).HAL(gputypes.TextureFormatDepth24PlusStencil8)
		if ds.DepthCompare != gputypes.CompareFunctionAlways || ds.DepthWriteEnabled {
			t.Errorf("disabled depth = compare %v write %v", ds.DepthCompare, ds.DepthWriteEnabled)
		}
		if ds.StencilFront.PassOp != hal.StencilOperationKeep || ds.StencilWriteMask != 0 {
			t.Errorf("disabled stencil modifies the buffer: %+v", ds.StencilFront)
		}
	})

	t.Run("stencil", func(t *testing.T) {
		desc := technique.DefaultDepthStencilDesc(true, technique.DepthWriteMaskZero)
		desc.StencilEnable = true
		desc.StencilReadMask = 0xF0
		desc.StencilWriteMask = 0x0F
		desc.FrontFace = technique.StencilOpDesc{
			FailOp:      technique.StencilOpZero,
			DepthFailOp: technique.StencilOpInvert,
			PassOp:      technique.StencilOpIncr,
			Func:        gputypes.CompareFunctionNotEqual,
		}
		desc.BackFace = technique.StencilOpDesc{
			FailOp:      technique.StencilOpKeep,
			DepthFailOp: technique.StencilOpKeep,
			PassOp:      technique.StencilOpDecr,
			Func:        gputypes.CompareFunctionAlways,
		}
		obj, err := dev.CreateDepthStencilState(&desc)
		if err != nil {
			t.Fatal(err)
		}
		ds := obj.(*DepthStencilState).HAL(gputypes.TextureFormatDepth24PlusStencil8)
		if ds.DepthCompare != gputypes.CompareFunctionGreater || ds.DepthWriteEnabled {
			t.Errorf("depth = compare %v write %v", ds.DepthCompare, ds.DepthWriteEnabled)
		}
		wantFront := hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionNotEqual,
			FailOp:      hal.StencilOperationZero,
			DepthFailOp: hal.StencilOperationInvert,
			PassOp:      hal.StencilOperationIncrementWrap,
		}
		if ds.StencilFront != wantFront {
			t.Errorf("front = %+v, want %+v", ds.StencilFront, wantFront)
		}
		if ds.StencilBack.PassOp != hal.StencilOperationDecrementWrap {
			t.Errorf("back pass op = %v, want DecrementWrap", ds.StencilBack.PassOp)
		}
		if ds.StencilReadMask != 0xF0 || ds.StencilWriteMask != 0x0F {
			t.Errorf("masks = %#x/%#x", ds.StencilReadMask, ds.StencilWriteMask)
		}
	})

	t.Run("unknown op", func(t *testing.T) {
		desc := technique.DefaultDepthStencilDesc(true, technique.DepthWriteMaskAll)
		desc.BackFace.PassOp = technique.StencilOp(99)
		if _, err := dev.CreateDepthStencilState(&desc); err == nil {
			t.Fatal("expected error for unknown stencil op")
		}
	})
}

func TestBlendTarget(t *testing.T) {
	dev := NewDevice(newFakeDevice())

	desc := technique.DefaultBlendDesc()
	desc.RenderTarget[0] = technique.RenderTargetBlendDesc{
		BlendEnable:    true,
		SrcBlend:       gputypes.BlendFactorOne,
		DestBlend:      gputypes.BlendFactorOneMinusSrcAlpha,
		BlendOp:        gputypes.BlendOperationAdd,
		SrcBlendAlpha:  gputypes.BlendFactorOne,
		DestBlendAlpha: gputypes.BlendFactorOneMinusSrcAlpha,
		BlendOpAlpha:   gputypes.BlendOperationAdd,
		WriteMask:      gputypes.ColorWriteMaskAll,
	}
	desc.RenderTarget[1].WriteMask = gputypes.ColorWriteMaskNone

	obj, err := dev.CreateBlendState(&desc)
	if err != nil {
		t.Fatal(err)
	}
	bs := obj.(*BlendState)

	over := gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorOne,
		DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
		Operation: gputypes.BlendOperationAdd,
	}
	blend, mask := bs.Target(1)
	if blend == nil || *blend != (gputypes.BlendState{Color: over, Alpha: over}) || mask != gputypes.ColorWriteMaskAll {
		t.Errorf("shared target 1 = %+v %v, want target 0", blend, mask)
	}

	desc.IndependentBlendEnable = true
	obj, _ = dev.CreateBlendState(&desc)
	blend, mask = obj.(*BlendState).Target(1)
	if blend != nil || mask != gputypes.ColorWriteMaskNone {
		t.Errorf("independent target 1 = %+v %v, want no blend and no writes", blend, mask)
	}
}

func TestCreateSampler(t *testing.T) {
	fake := newFakeDevice()
	dev := NewDevice(fake)

	desc := technique.DefaultSamplerDesc(technique.FilterMinMagMipLinear, gputypes.AddressModeRepeat)
	obj, err := dev.CreateSampler(&desc)
	if err != nil {
		t.Fatal(err)
	}
	got := fake.samplers[0]
	if got.AddressModeU != gputypes.AddressModeRepeat || got.AddressModeW != gputypes.AddressModeRepeat {
		t.Errorf("address modes = %v/%v", got.AddressModeU, got.AddressModeW)
	}
	if got.MagFilter != gputypes.FilterModeLinear || got.MipmapFilter != gputypes.FilterModeLinear {
		t.Errorf("filters = %v/%v", got.MagFilter, got.MipmapFilter)
	}
	if got.LodMinClamp != 0 || got.LodMaxClamp != 32 {
		t.Errorf("LOD clamp = [%v, %v], want [0, 32]", got.LodMinClamp, got.LodMaxClamp)
	}

	obj.Release()
	obj.Release()
	if fake.destroyed["sampler"] != 1 {
		t.Errorf("DestroySampler calls = %d, want 1", fake.destroyed["sampler"])
	}
}

func TestCreateSamplerLODRange(t *testing.T) {
	tests := []struct {
		name             string
		minLOD, maxLOD   float32
		wantMin, wantMax float32
	}{
		{"in range", 1, 4, 1, 4},
		{"negative", -3, -1, 0, 0},
		{"beyond max", 10, 1000, 10, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeDevice()
			desc := technique.DefaultSamplerDesc(technique.FilterMinMagMipPoint, gputypes.AddressModeClampToEdge)
			desc.MinLOD, desc.MaxLOD = tt.minLOD, tt.maxLOD
			if _, err := NewDevice(fake).CreateSampler(&desc); err != nil {
				t.Fatal(err)
			}
			got := fake.samplers[0]
			if got.LodMinClamp != tt.wantMin || got.LodMaxClamp != tt.wantMax {
				t.Errorf("LOD clamp = [%v, %v], want [%v, %v]", got.LodMinClamp, got.LodMaxClamp, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCreateSamplerErrors(t *testing.T) {
	fake := newFakeDevice()
	dev := NewDevice(fake)

	desc := technique.DefaultSamplerDesc(technique.FilterMinMagMipPoint, gputypes.AddressModeClampToEdge)
	desc.ComparisonFunc = gputypes.CompareFunctionLess
	if _, err := dev.CreateSampler(&desc); !errors.Is(err, ErrUnsupported) {
		t.Errorf("comparison sampler err = %v, want ErrUnsupported", err)
	}

	fake.fail = true
	desc.ComparisonFunc = gputypes.CompareFunctionNever
	if _, err := dev.CreateSampler(&desc); !errors.Is(err, errOutOfMemory) {
		t.Errorf("device failure err = %v, want wrapped error", err)
	}
}
