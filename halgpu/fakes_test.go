package halgpu

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/technique"
	"github.com/gogpu/technique/compiler"
)

const testWGSL = `struct VertexOutput {
    @builtin(position) position: vec4<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(f32(idx), 0.0, 0.0, 1.0);
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_blue(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 1.0, 1.0);
}

@compute @workgroup_size(8)
fn cs_main(@builtin(global_invocation_id) id: vec3<u32>) {
    var v: u32 = id.x;
}
`

// compileSPIRV compiles one entry point of testWGSL to SPIR-V.
func compileSPIRV(t *testing.T, entry string, profile technique.Profile) []byte {
	t.Helper()
	c := compiler.New(compiler.WithFS(fstest.MapFS{
		"test.wgsl": &fstest.MapFile{Data: []byte(testWGSL)},
	}))
	code, diag, err := c.Compile(&technique.CompileRequest{
		Path:    "test.wgsl",
		Entry:   entry,
		Profile: profile,
		Flags:   technique.FlagStrict,
	})
	if err != nil {
		t.Fatalf("compile %s: %v\n%s", entry, err, diag)
	}
	return code
}

// createNoopDevice creates a noop HAL device for testing.
func createNoopDevice(t *testing.T) hal.Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device
}

type (
	fakeModule   struct{ hal.ShaderModule }
	fakeSampler  struct{ hal.Sampler }
	fakeRender   struct{ hal.RenderPipeline }
	fakeCompute  struct{ hal.ComputePipeline }
	fakeLayout   struct{ hal.PipelineLayout }
	fakeRecorder struct {
		hal.RenderPassEncoder
		pipeline hal.RenderPipeline
	}
)

func (r *fakeRecorder) SetPipeline(p hal.RenderPipeline) { r.pipeline = p }

var errOutOfMemory = errors.New("out of memory")

// fakeDevice records pipeline descriptors and destroy calls. Methods not
// overridden panic through the nil embedded interface.
type fakeDevice struct {
	hal.Device

	fail bool

	modules   []*hal.ShaderModuleDescriptor
	samplers  []*hal.SamplerDescriptor
	renders   []*hal.RenderPipelineDescriptor
	computes  []*hal.ComputePipelineDescriptor
	destroyed map[string]int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{destroyed: make(map[string]int)}
}

func (d *fakeDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if d.fail {
		return nil, errOutOfMemory
	}
	d.modules = append(d.modules, desc)
	return &fakeModule{}, nil
}

func (d *fakeDevice) DestroyShaderModule(hal.ShaderModule) { d.destroyed["module"]++ }

func (d *fakeDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	if d.fail {
		return nil, errOutOfMemory
	}
	d.samplers = append(d.samplers, desc)
	return &fakeSampler{}, nil
}

func (d *fakeDevice) DestroySampler(hal.Sampler) { d.destroyed["sampler"]++ }

func (d *fakeDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if d.fail {
		return nil, errOutOfMemory
	}
	d.renders = append(d.renders, desc)
	return &fakeRender{}, nil
}

func (d *fakeDevice) DestroyRenderPipeline(hal.RenderPipeline) { d.destroyed["render"]++ }

func (d *fakeDevice) CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	if d.fail {
		return nil, errOutOfMemory
	}
	d.computes = append(d.computes, desc)
	return &fakeCompute{}, nil
}

func (d *fakeDevice) DestroyComputePipeline(hal.ComputePipeline) { d.destroyed["compute"]++ }

// foreignShader is a technique.Shader not created by this package.
type foreignShader struct{}

func (foreignShader) Release() {}
