package technique

import (
	"bytes"
	"errors"
)

// fakeResource counts releases.
type fakeResource struct {
	name     string
	released int
}

func (r *fakeResource) Release() { r.released++ }

type fakeShader struct {
	fakeResource
	code []byte
}

type fakeRasterizer struct {
	fakeResource
	desc RasterizerDesc
}

func (s *fakeRasterizer) Desc() RasterizerDesc { return s.desc }

type fakeDepthStencil struct {
	fakeResource
	desc DepthStencilDesc
}

func (s *fakeDepthStencil) Desc() DepthStencilDesc { return s.desc }

type fakeBlend struct {
	fakeResource
	desc BlendDesc
}

func (s *fakeBlend) Desc() BlendDesc { return s.desc }

type fakeSampler struct {
	fakeResource
	desc SamplerDesc
}

func (s *fakeSampler) Desc() SamplerDesc { return s.desc }

var errDeviceRejected = errors.New("fake: rejected")

// fakeDevice is a test double for Device.
type fakeDevice struct {
	// failOps makes the named Create* methods fail.
	failOps map[string]bool

	created []string
}

func (d *fakeDevice) shader(op string, code []byte) (Shader, error) {
	if d.failOps[op] {
		return nil, errDeviceRejected
	}
	d.created = append(d.created, op)
	return &fakeShader{fakeResource: fakeResource{name: op}, code: bytes.Clone(code)}, nil
}

func (d *fakeDevice) CreateVertexShader(code []byte) (Shader, error) {
	return d.shader("CreateVertexShader", code)
}

func (d *fakeDevice) CreateGeometryShader(code []byte) (Shader, error) {
	return d.shader("CreateGeometryShader", code)
}

func (d *fakeDevice) CreatePixelShader(code []byte) (Shader, error) {
	return d.shader("CreatePixelShader", code)
}

func (d *fakeDevice) CreateComputeShader(code []byte) (Shader, error) {
	return d.shader("CreateComputeShader", code)
}

func (d *fakeDevice) CreateRasterizerState(desc *RasterizerDesc) (RasterizerState, error) {
	if d.failOps["CreateRasterizerState"] {
		return nil, errDeviceRejected
	}
	d.created = append(d.created, "CreateRasterizerState")
	return &fakeRasterizer{desc: *desc}, nil
}

func (d *fakeDevice) CreateDepthStencilState(desc *DepthStencilDesc) (DepthStencilState, error) {
	if d.failOps["CreateDepthStencilState"] {
		return nil, errDeviceRejected
	}
	d.created = append(d.created, "CreateDepthStencilState")
	return &fakeDepthStencil{desc: *desc}, nil
}

func (d *fakeDevice) CreateBlendState(desc *BlendDesc) (BlendState, error) {
	if d.failOps["CreateBlendState"] {
		return nil, errDeviceRejected
	}
	d.created = append(d.created, "CreateBlendState")
	return &fakeBlend{desc: *desc}, nil
}

func (d *fakeDevice) CreateSampler(desc *SamplerDesc) (Sampler, error) {
	if d.failOps["CreateSampler"] {
		return nil, errDeviceRejected
	}
	d.created = append(d.created, "CreateSampler")
	return &fakeSampler{desc: *desc}, nil
}

// binding records one Context call.
type binding struct {
	call       string
	stage      Stage
	object     any
	stencilRef uint32
	factor     [4]float32
	mask       uint32
}

// fakeContext records every binding in order.
type fakeContext struct {
	bindings []binding
}

func (c *fakeContext) SetShader(stage Stage, s Shader) {
	var obj any
	if s != nil {
		obj = s
	}
	c.bindings = append(c.bindings, binding{call: "SetShader", stage: stage, object: obj})
}

func (c *fakeContext) SetRasterizerState(s RasterizerState) {
	var obj any
	if s != nil {
		obj = s
	}
	c.bindings = append(c.bindings, binding{call: "SetRasterizerState", object: obj})
}

func (c *fakeContext) SetDepthStencilState(s DepthStencilState, ref uint32) {
	var obj any
	if s != nil {
		obj = s
	}
	c.bindings = append(c.bindings, binding{call: "SetDepthStencilState", object: obj, stencilRef: ref})
}

func (c *fakeContext) SetBlendState(s BlendState, factor [4]float32, mask uint32) {
	var obj any
	if s != nil {
		obj = s
	}
	c.bindings = append(c.bindings, binding{call: "SetBlendState", object: obj, factor: factor, mask: mask})
}

// shaderBinding returns the object bound for stage by the last SetShader.
func (c *fakeContext) shaderBinding(stage Stage) (obj any, found bool) {
	for i := len(c.bindings) - 1; i >= 0; i-- {
		b := c.bindings[i]
		if b.call == "SetShader" && b.stage == stage {
			return b.object, true
		}
	}
	return nil, false
}

// fakeCompiler returns "<profile>:<entry>" as byte-code. Entries listed in
// fail fail with a diagnostic; failures are consumed one per call when
// failTimes is set.
type fakeCompiler struct {
	fail      map[string]bool
	failTimes map[string]int
	warn      string

	requests []CompileRequest
}

func (c *fakeCompiler) Compile(req *CompileRequest) ([]byte, string, error) {
	c.requests = append(c.requests, *req)
	if n, ok := c.failTimes[req.Entry]; ok && n > 0 {
		c.failTimes[req.Entry] = n - 1
		return nil, req.Path + ": error: syntax error", errors.New("syntax error")
	}
	if c.fail[req.Entry] {
		return nil, req.Path + ": error: unknown identifier", errors.New("unknown identifier")
	}
	return []byte(string(req.Profile) + ":" + req.Entry), c.warn, nil
}

func (c *fakeCompiler) calls() int { return len(c.requests) }
