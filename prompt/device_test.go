package prompt

import "github.com/gogpu/technique"

type nopShader struct{}

func (nopShader) Release() {}

// nopDevice accepts any byte-code; states are never created by these tests.
type nopDevice struct{}

func (nopDevice) CreateVertexShader([]byte) (technique.Shader, error) { return nopShader{}, nil }
func (nopDevice) CreateGeometryShader([]byte) (technique.Shader, error) { return nopShader{}, nil }
func (nopDevice) CreatePixelShader([]byte) (technique.Shader, error) { return nopShader{}, nil }
func (nopDevice) CreateComputeShader([]byte) (technique.Shader, error) { return nopShader{}, nil }

func (nopDevice) CreateRasterizerState(*technique.RasterizerDesc) (technique.RasterizerState, error) {
	return nil, nil
}

func (nopDevice) CreateDepthStencilState(*technique.DepthStencilDesc) (technique.DepthStencilState, error) {
	return nil, nil
}

func (nopDevice) CreateBlendState(*technique.BlendDesc) (technique.BlendState, error) {
	return nil, nil
}

func (nopDevice) CreateSampler(*technique.SamplerDesc) (technique.Sampler, error) {
	return nil, nil
}
