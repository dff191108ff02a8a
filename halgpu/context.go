package halgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/technique"
)

var (
	// ErrNoVertexShader is returned by RenderPipeline when no vertex shader
	// is bound.
	ErrNoVertexShader = errors.New("halgpu: no vertex shader bound")

	// ErrNoComputeShader is returned by ComputePipeline when no compute
	// shader is bound.
	ErrNoComputeShader = errors.New("halgpu: no compute shader bound")
)

// renderStages are the stages that feed a render pipeline, in hash order.
var renderStages = [...]technique.Stage{technique.StageVertex, technique.StagePixel}

const computeStage = technique.StageCompute

type contextOptions struct {
	colorFormats []gputypes.TextureFormat
	depthFormat  gputypes.TextureFormat
	sampleCount  uint32
	topology     gputypes.PrimitiveTopology
}

func defaultContextOptions() contextOptions {
	return contextOptions{
		colorFormats: []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm},
		depthFormat:  gputypes.TextureFormatDepth24PlusStencil8,
		sampleCount:  1,
		topology:     gputypes.PrimitiveTopologyTriangleList,
	}
}

// ContextOption configures a Context.
type ContextOption func(*contextOptions)

// WithColorFormats sets the color attachment formats of built render
// pipelines, one per render target. Formats beyond MaxRenderTargets are
// dropped.
func WithColorFormats(formats ...gputypes.TextureFormat) ContextOption {
	return func(o *contextOptions) {
		if len(formats) > technique.MaxRenderTargets {
			formats = formats[:technique.MaxRenderTargets]
		}
		o.colorFormats = append([]gputypes.TextureFormat(nil), formats...)
	}
}

// WithDepthFormat sets the depth-stencil attachment format.
// TextureFormatUndefined builds pipelines without depth-stencil state.
func WithDepthFormat(format gputypes.TextureFormat) ContextOption {
	return func(o *contextOptions) {
		o.depthFormat = format
	}
}

// WithSampleCount sets the multisample count. Zero is treated as 1.
func WithSampleCount(count uint32) ContextOption {
	return func(o *contextOptions) {
		if count == 0 {
			count = 1
		}
		o.sampleCount = count
	}
}

// WithTopology sets the primitive topology of built render pipelines.
func WithTopology(topology gputypes.PrimitiveTopology) ContextOption {
	return func(o *contextOptions) {
		o.topology = topology
	}
}

// Context records what a technique binds and turns it into HAL pipelines.
//
// WebGPU has no mutable pipeline state, so the Set methods only record
// objects. RenderPipeline and ComputePipeline build a pipeline from the
// recorded state and cache it until the state or layout changes. The stencil
// reference and blend constant are dynamic pass state and are exposed for
// the caller to set on its render pass.
//
// Context is not safe for concurrent use.
type Context struct {
	device *Device
	opts   contextOptions

	shaders      [technique.StageCount]*Shader
	rasterizer   *RasterizerState
	depthStencil *DepthStencilState
	blend        *BlendState

	stencilRef    uint32
	blendConstant [4]float32
	sampleMask    uint32

	render       hal.RenderPipeline
	renderKeyVal uint64
	renderLayout hal.PipelineLayout

	compute       hal.ComputePipeline
	computeKeyVal uint64
	computeLayout hal.PipelineLayout
}

var _ technique.Context = (*Context)(nil)

// NewContext creates a Context building pipelines on dev.
func NewContext(dev *Device, opts ...ContextOption) *Context {
	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{
		device:     dev,
		opts:       o,
		sampleMask: 0xFFFFFFFF,
	}
}

// SetShader records the shader of stage. Shaders not created by a halgpu
// Device are logged and treated as nil.
func (c *Context) SetShader(stage technique.Stage, shader technique.Shader) {
	if stage >= technique.StageCount {
		return
	}
	var s *Shader
	if shader != nil {
		var ok bool
		if s, ok = shader.(*Shader); !ok {
			c.foreign("shader", shader)
		}
	}
	c.shaders[stage] = s
}

// SetRasterizerState records the rasterizer state.
func (c *Context) SetRasterizerState(state technique.RasterizerState) {
	c.rasterizer = nil
	if state == nil {
		return
	}
	s, ok := state.(*RasterizerState)
	if !ok {
		c.foreign("rasterizer state", state)
		return
	}
	c.rasterizer = s
}

// SetDepthStencilState records the depth-stencil state and stencil reference.
func (c *Context) SetDepthStencilState(state technique.DepthStencilState, stencilRef uint32) {
	c.stencilRef = stencilRef
	c.depthStencil = nil
	if state == nil {
		return
	}
	s, ok := state.(*DepthStencilState)
	if !ok {
		c.foreign("depth-stencil state", state)
		return
	}
	c.depthStencil = s
}

// SetBlendState records the blend state, blend constant and sample mask.
func (c *Context) SetBlendState(state technique.BlendState, blendFactor [4]float32, sampleMask uint32) {
	c.blendConstant = blendFactor
	c.sampleMask = sampleMask
	c.blend = nil
	if state == nil {
		return
	}
	s, ok := state.(*BlendState)
	if !ok {
		c.foreign("blend state", state)
		return
	}
	c.blend = s
}

func (c *Context) foreign(kind string, v any) {
	technique.Logger().Warn("halgpu: ignoring foreign "+kind,
		slog.String("type", fmt.Sprintf("%T", v)))
}

// Shader returns the shader recorded for stage, or nil.
func (c *Context) Shader(stage technique.Stage) *Shader {
	if stage >= technique.StageCount {
		return nil
	}
	return c.shaders[stage]
}

// StencilReference returns the recorded stencil reference.
func (c *Context) StencilReference() uint32 { return c.stencilRef }

// BlendConstant returns the recorded blend constant as a WebGPU color.
func (c *Context) BlendConstant() gputypes.Color {
	f := c.blendConstant
	return gputypes.Color{R: float64(f[0]), G: float64(f[1]), B: float64(f[2]), A: float64(f[3])}
}

// SampleMask returns the recorded sample mask.
func (c *Context) SampleMask() uint32 { return c.sampleMask }

func (c *Context) primitive() gputypes.PrimitiveState {
	if c.rasterizer != nil {
		return c.rasterizer.Primitive(c.opts.topology)
	}
	return gputypes.PrimitiveState{
		Topology:  c.opts.topology,
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  gputypes.CullModeNone,
	}
}

func (c *Context) target(i int) (*gputypes.BlendState, gputypes.ColorWriteMask) {
	if c.blend == nil {
		return nil, gputypes.ColorWriteMaskAll
	}
	return c.blend.Target(i)
}

// RenderPipeline returns a render pipeline for the recorded vertex and pixel
// shaders and state. The pipeline is cached and rebuilt, destroying the
// previous one, when the recorded state, buffers or layout change. The
// Context owns the returned pipeline.
func (c *Context) RenderPipeline(layout hal.PipelineLayout, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	vs := c.shaders[technique.StageVertex]
	if vs == nil || vs.module == nil {
		return nil, ErrNoVertexShader
	}
	key := c.renderKey(buffers)
	if c.render != nil && key == c.renderKeyVal && layout == c.renderLayout {
		return c.render, nil
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:  "technique_render_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     vs.module,
			EntryPoint: vs.entry,
			Buffers:    buffers,
		},
		Multisample: gputypes.MultisampleState{
			Count: c.opts.sampleCount,
			Mask:  uint64(c.sampleMask),
		},
		Primitive: c.primitive(),
	}
	if ps := c.shaders[technique.StagePixel]; ps != nil && ps.module != nil {
		targets := make([]gputypes.ColorTargetState, len(c.opts.colorFormats))
		for i, f := range c.opts.colorFormats {
			blend, mask := c.target(i)
			targets[i] = gputypes.ColorTargetState{Format: f, Blend: blend, WriteMask: mask}
		}
		desc.Fragment = &hal.FragmentState{
			Module:     ps.module,
			EntryPoint: ps.entry,
			Targets:    targets,
		}
	}
	if c.opts.depthFormat != gputypes.TextureFormatUndefined {
		ds := c.depthStencil
		if ds == nil {
			ds = &DepthStencilState{desc: technique.DefaultDepthStencilDesc(false, technique.DepthWriteMaskZero)}
		}
		desc.DepthStencil = ds.HAL(c.opts.depthFormat)
	}

	pipeline, err := c.device.raw.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	c.destroyRender()
	c.render, c.renderKeyVal, c.renderLayout = pipeline, key, layout
	technique.Logger().Debug("halgpu: render pipeline built",
		slog.String("vs", vs.entry),
		slog.Bool("fragment", desc.Fragment != nil),
		slog.Uint64("key", key))
	return pipeline, nil
}

// ComputePipeline returns a compute pipeline for the recorded compute shader,
// cached like RenderPipeline.
func (c *Context) ComputePipeline(layout hal.PipelineLayout) (hal.ComputePipeline, error) {
	cs := c.shaders[computeStage]
	if cs == nil || cs.module == nil {
		return nil, ErrNoComputeShader
	}
	key := c.computeKey()
	if c.compute != nil && key == c.computeKeyVal && layout == c.computeLayout {
		return c.compute, nil
	}

	pipeline, err := c.device.raw.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "technique_compute_pipeline",
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     cs.module,
			EntryPoint: cs.entry,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}
	c.destroyCompute()
	c.compute, c.computeKeyVal, c.computeLayout = pipeline, key, layout
	technique.Logger().Debug("halgpu: compute pipeline built",
		slog.String("cs", cs.entry),
		slog.Uint64("key", key))
	return pipeline, nil
}

// Bind sets the render pipeline for the recorded state on pass.
func (c *Context) Bind(pass hal.RenderPassEncoder, layout hal.PipelineLayout, buffers []gputypes.VertexBufferLayout) error {
	pipeline, err := c.RenderPipeline(layout, buffers)
	if err != nil {
		return err
	}
	pass.SetPipeline(pipeline)
	return nil
}

func (c *Context) destroyRender() {
	if c.render != nil {
		c.device.raw.DestroyRenderPipeline(c.render)
		c.render, c.renderLayout = nil, nil
	}
}

func (c *Context) destroyCompute() {
	if c.compute != nil {
		c.device.raw.DestroyComputePipeline(c.compute)
		c.compute, c.computeLayout = nil, nil
	}
}

// Destroy destroys the cached pipelines and forgets every recorded object.
// Recorded shaders and states are not released; they belong to techniques.
func (c *Context) Destroy() {
	c.destroyRender()
	c.destroyCompute()
	c.shaders = [technique.StageCount]*Shader{}
	c.rasterizer, c.depthStencil, c.blend = nil, nil, nil
}
