package compiler

import "github.com/gogpu/technique"

type nopShader struct{}

func (nopShader) Release() {}

// byteCodeDevice accepts any byte-code and reports the vertex byte-code.
type byteCodeDevice struct {
	onVertex func([]byte)
}

func (d byteCodeDevice) CreateVertexShader(b []byte) (technique.Shader, error) {
	if d.onVertex != nil {
		d.onVertex(b)
	}
	return nopShader{}, nil
}

func (byteCodeDevice) CreateGeometryShader([]byte) (technique.Shader, error) { return nopShader{}, nil }
func (byteCodeDevice) CreatePixelShader([]byte) (technique.Shader, error)    { return nopShader{}, nil }
func (byteCodeDevice) CreateComputeShader([]byte) (technique.Shader, error)  { return nopShader{}, nil }

func (byteCodeDevice) CreateRasterizerState(*technique.RasterizerDesc) (technique.RasterizerState, error) {
	return nil, nil
}

func (byteCodeDevice) CreateDepthStencilState(*technique.DepthStencilDesc) (technique.DepthStencilState, error) {
	return nil, nil
}

func (byteCodeDevice) CreateBlendState(*technique.BlendDesc) (technique.BlendState, error) {
	return nil, nil
}

func (byteCodeDevice) CreateSampler(*technique.SamplerDesc) (technique.Sampler, error) {
	return nil, nil
}
