package technique

import (
	"log/slog"
)

// Technique bundles the shader stages and fixed-function state of one
// rendering configuration.
//
// Every slot is optional and independent: creating one never requires or
// invalidates another, and re-creating a slot releases its previous object
// first. The Device and Context are borrowed, never released by the
// technique, and must outlive it.
//
// Technique is NOT safe for concurrent use. Callers sharing one across
// goroutines must serialize every call, Release included.
type Technique struct {
	device   Device
	context  Context
	compiler Compiler
	retry    RetryPolicy
	log      *slog.Logger

	shaders      [StageCount]Shader
	rasterizer   RasterizerState
	depthStencil DepthStencilState
	blend        BlendState

	// vsByteCode is retained for input-layout creation.
	vsByteCode []byte

	diagnostic string

	stencilRef uint32
}

// New creates an empty technique. No resource is created until a creation
// operation is called.
func New(opts ...Option) *Technique {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Technique{
		device:     o.device,
		context:    o.context,
		compiler:   o.compiler,
		retry:      o.retry,
		log:        o.logger,
		stencilRef: o.stencilRef,
	}
}

// Bind sets the borrowed Device and Context. Either may be nil.
func (t *Technique) Bind(device Device, ctx Context) {
	t.device = device
	t.context = ctx
}

// Device returns the bound Device, or nil.
func (t *Technique) Device() Device { return t.device }

// Context returns the bound Context, or nil.
func (t *Technique) Context() Context { return t.context }

// SetStencilRef sets the stencil reference value bound by Apply.
func (t *Technique) SetStencilRef(ref uint32) { t.stencilRef = ref }

// StencilRef returns the stencil reference value bound by Apply.
func (t *Technique) StencilRef() uint32 { return t.stencilRef }

// Shader returns the shader held for stage, or nil.
func (t *Technique) Shader(stage Stage) Shader {
	if stage >= StageCount {
		return nil
	}
	return t.shaders[stage]
}

// RasterizerState returns the held rasterizer state, or nil.
func (t *Technique) RasterizerState() RasterizerState { return t.rasterizer }

// DepthStencilState returns the held depth-stencil state, or nil.
func (t *Technique) DepthStencilState() DepthStencilState { return t.depthStencil }

// BlendState returns the held blend state, or nil.
func (t *Technique) BlendState() BlendState { return t.blend }

// VertexByteCode returns the byte-code of the current vertex shader, or nil
// when no vertex shader has been created. The slice must not be modified.
func (t *Technique) VertexByteCode() []byte { return t.vsByteCode }

// Release releases every held resource and unbinds the Device and Context.
// The compiler, retry policy, logger and stencil reference are kept, so a
// released technique behaves like one returned by New with the same options
// and no Device. Release is idempotent.
func (t *Technique) Release() {
	for s := range t.shaders {
		t.releaseShader(Stage(s))
	}
	t.releaseRasterizer()
	t.releaseDepthStencil()
	t.releaseBlend()
	t.vsByteCode = nil
	t.diagnostic = ""
	t.context = nil
	t.device = nil
}

// Diagnostic returns the compiler output of the most recent compilation
// attempt, warnings included, or "" when it was clean. Diagnostics are also
// logged, but the default logger discards them.
func (t *Technique) Diagnostic() string { return t.diagnostic }

func (t *Technique) logger() *slog.Logger {
	if t.log != nil {
		return t.log
	}
	return Logger()
}

func (t *Technique) releaseShader(stage Stage) {
	if t.shaders[stage] == nil {
		return
	}
	t.shaders[stage].Release()
	t.shaders[stage] = nil
	t.logger().Debug("released shader", slog.String("stage", stage.String()))
}

func (t *Technique) releaseRasterizer() {
	if t.rasterizer != nil {
		t.rasterizer.Release()
		t.rasterizer = nil
	}
}

func (t *Technique) releaseDepthStencil() {
	if t.depthStencil != nil {
		t.depthStencil.Release()
		t.depthStencil = nil
	}
}

func (t *Technique) releaseBlend() {
	if t.blend != nil {
		t.blend.Release()
		t.blend = nil
	}
}
