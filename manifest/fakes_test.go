package manifest

import (
	"errors"

	"github.com/gogpu/technique"
)

type recordingCompiler struct {
	fail    string
	entries []string
	paths   []string
	defines []technique.Define
}

func (c *recordingCompiler) Compile(req *technique.CompileRequest) ([]byte, string, error) {
	c.entries = append(c.entries, req.Entry)
	c.paths = append(c.paths, req.Path)
	c.defines = req.Defines
	if req.Entry == c.fail {
		return nil, req.Path + ": error: broken", errors.New("broken")
	}
	return []byte(req.Entry), "", nil
}

type shader struct{}

func (shader) Release() {}

type rasterizer struct{ desc technique.RasterizerDesc }

func (r *rasterizer) Release() {}
func (r *rasterizer) Desc() technique.RasterizerDesc { return r.desc }

type depthStencil struct{ desc technique.DepthStencilDesc }

func (d *depthStencil) Release() {}
func (d *depthStencil) Desc() technique.DepthStencilDesc { return d.desc }

type blend struct{ desc technique.BlendDesc }

func (b *blend) Release() {}
func (b *blend) Desc() technique.BlendDesc { return b.desc }

type sampler struct{ desc technique.SamplerDesc }

func (s *sampler) Release() {}
func (s *sampler) Desc() technique.SamplerDesc { return s.desc }

// recordingDevice creates objects that remember their descriptors.
type recordingDevice struct{}

func (*recordingDevice) CreateVertexShader([]byte) (technique.Shader, error) { return shader{}, nil }
func (*recordingDevice) CreateGeometryShader([]byte) (technique.Shader, error) { return shader{}, nil }
func (*recordingDevice) CreatePixelShader([]byte) (technique.Shader, error) { return shader{}, nil }
func (*recordingDevice) CreateComputeShader([]byte) (technique.Shader, error) { return shader{}, nil }

func (*recordingDevice) CreateRasterizerState(d *technique.RasterizerDesc) (technique.RasterizerState, error) {
	return &rasterizer{desc: *d}, nil
}

func (*recordingDevice) CreateDepthStencilState(d *technique.DepthStencilDesc) (technique.DepthStencilState, error) {
	return &depthStencil{desc: *d}, nil
}

func (*recordingDevice) CreateBlendState(d *technique.BlendDesc) (technique.BlendState, error) {
	return &blend{desc: *d}, nil
}

func (*recordingDevice) CreateSampler(d *technique.SamplerDesc) (technique.Sampler, error) {
	return &sampler{desc: *d}, nil
}
