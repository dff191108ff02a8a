package technique

// Resource is a device object owned by whoever created it through a Device.
// Release must be safe to call once; the technique never calls it twice on
// the same object.
type Resource interface {
	Release()
}

// Shader is a compiled shader stage object.
type Shader interface {
	Resource
}

// RasterizerState is an immutable rasterizer state object.
type RasterizerState interface {
	Resource
	Desc() RasterizerDesc
}

// DepthStencilState is an immutable depth-stencil state object.
type DepthStencilState interface {
	Resource
	Desc() DepthStencilDesc
}

// BlendState is an immutable blend state object.
type BlendState interface {
	Resource
	Desc() BlendDesc
}

// Sampler is a sampler state object.
type Sampler interface {
	Resource
	Desc() SamplerDesc
}

// Device creates GPU objects. A technique borrows its Device: the Device
// must outlive every technique it is bound to.
type Device interface {
	CreateVertexShader(byteCode []byte) (Shader, error)
	CreateGeometryShader(byteCode []byte) (Shader, error)
	CreatePixelShader(byteCode []byte) (Shader, error)
	CreateComputeShader(byteCode []byte) (Shader, error)

	CreateRasterizerState(desc *RasterizerDesc) (RasterizerState, error)
	CreateDepthStencilState(desc *DepthStencilDesc) (DepthStencilState, error)
	CreateBlendState(desc *BlendDesc) (BlendState, error)
	CreateSampler(desc *SamplerDesc) (Sampler, error)
}

// Context is the binding target of Apply. Like the Device it is borrowed.
// A nil object binds "nothing" for that slot.
type Context interface {
	SetShader(stage Stage, shader Shader)
	SetRasterizerState(state RasterizerState)
	SetDepthStencilState(state DepthStencilState, stencilRef uint32)
	SetBlendState(state BlendState, blendFactor [4]float32, sampleMask uint32)
}
