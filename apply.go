package technique

// blendFactor is the constant blend color bound by Apply.
var blendFactor = [4]float32{0, 0, 0, 0}

// sampleMask enables every sample.
const sampleMask = 0xFFFFFFFF

// Apply binds the technique to its Context: hull and domain are cleared,
// the vertex, geometry, pixel and compute shaders are bound (an empty slot
// binds no shader), followed by the rasterizer, depth-stencil (with the
// stencil reference) and blend states.
//
// Binding cannot fail. Without a Context, Apply logs a warning and returns.
func (t *Technique) Apply() {
	ctx := t.context
	if ctx == nil {
		t.logger().Warn("technique: Apply without a bound context")
		return
	}

	ctx.SetShader(StageHull, nil)
	ctx.SetShader(StageDomain, nil)
	for _, stage := range [...]Stage{StageVertex, StageGeometry, StagePixel, StageCompute} {
		ctx.SetShader(stage, t.shaders[stage])
	}
	ctx.SetRasterizerState(t.rasterizer)
	ctx.SetDepthStencilState(t.depthStencil, t.stencilRef)
	ctx.SetBlendState(t.blend, blendFactor, sampleMask)
}
