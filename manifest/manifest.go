// Package manifest loads technique descriptions from TOML or YAML files.
//
// A manifest names one shader source file, the entry point of each stage,
// the defines passed to the compiler and the fixed-function state:
//
//	shader = "shaders/lit.wgsl"
//	stencil_ref = 1
//
//	[entries]
//	vertex = "vs_main"
//	pixel = "fs_main"
//
//	[defines]
//	USE_FOG = "true"
//
//	[rasterizer]
//	cull = "back"
//	front_ccw = true
//
//	[depth]
//	enable = true
//	write = true
//
//	[blend]
//	mode = "premultiplied"
//
//	[[samplers]]
//	name = "albedo"
//	filter = "linear"
//	address = "repeat"
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/technique"
)

// ErrInvalid is wrapped by every manifest validation error. It satisfies
// errors.Is(err, technique.ErrConfiguration).
var ErrInvalid = fmt.Errorf("%w: invalid manifest", technique.ErrConfiguration)

// Manifest describes one technique.
type Manifest struct {
	// Shader is the source file, relative to the manifest's directory.
	// A leading ~ is expanded to the home directory.
	Shader string `toml:"shader" yaml:"shader"`

	Entries    Entries           `toml:"entries" yaml:"entries"`
	Defines    map[string]string `toml:"defines" yaml:"defines"`
	StencilRef uint32            `toml:"stencil_ref" yaml:"stencil_ref"`

	Rasterizer *Rasterizer `toml:"rasterizer" yaml:"rasterizer"`
	Depth      *Depth      `toml:"depth" yaml:"depth"`
	Blend      *Blend      `toml:"blend" yaml:"blend"`
	Samplers   []Sampler   `toml:"samplers" yaml:"samplers"`

	// dir is the directory Shader is resolved against.
	dir string
}

// Entries names the entry point of each stage. Empty stages are skipped.
type Entries struct {
	Vertex   string `toml:"vertex" yaml:"vertex"`
	Geometry string `toml:"geometry" yaml:"geometry"`
	Pixel    string `toml:"pixel" yaml:"pixel"`
	Compute  string `toml:"compute" yaml:"compute"`
}

// Rasterizer selects a default rasterizer state.
type Rasterizer struct {
	Fill     string `toml:"fill" yaml:"fill"` // solid (default) or wireframe
	Cull     string `toml:"cull" yaml:"cull"` // none (default), front or back
	FrontCCW bool   `toml:"front_ccw" yaml:"front_ccw"`
}

// Depth selects a default depth state.
type Depth struct {
	Enable bool `toml:"enable" yaml:"enable"`
	Write  bool `toml:"write" yaml:"write"`
}

// Blend selects a blend state.
type Blend struct {
	// Mode is opaque (default), premultiplied or alpha.
	Mode string `toml:"mode" yaml:"mode"`
}

// Sampler describes one sampler created by Build.
type Sampler struct {
	Name    string `toml:"name" yaml:"name"`
	Filter  string `toml:"filter" yaml:"filter"`   // point (default), linear or linear-mip-point
	Address string `toml:"address" yaml:"address"` // clamp (default), repeat or mirror
}

// Load reads a manifest. Files ending in .yaml or .yml are YAML, everything
// else is TOML. Unknown keys are errors.
func Load(path string) (*Manifest, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	default:
		m, err = ParseTOML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// ParseTOML decodes and validates a TOML manifest. Shader paths are resolved
// against the working directory.
func ParseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: %d:%d: %s", ErrInvalid, row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(serr.String()))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &m, m.Validate()
}

// ParseYAML decodes and validates a YAML manifest.
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &m, m.Validate()
}

// Validate checks every enumerated value and that at least one stage is
// named.
func (m *Manifest) Validate() error {
	e := m.Entries
	if e.Vertex == "" && e.Geometry == "" && e.Pixel == "" && e.Compute == "" {
		return fmt.Errorf("%w: no entry points", ErrInvalid)
	}
	if m.Shader == "" {
		return fmt.Errorf("%w: no shader file", ErrInvalid)
	}
	if r := m.Rasterizer; r != nil {
		if _, err := fillMode(r.Fill); err != nil {
			return err
		}
		if _, err := cullMode(r.Cull); err != nil {
			return err
		}
	}
	if m.Blend != nil {
		if _, err := blendDesc(m.Blend.Mode); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(m.Samplers))
	for _, s := range m.Samplers {
		if s.Name == "" || seen[s.Name] {
			return fmt.Errorf("%w: sampler name %q missing or repeated", ErrInvalid, s.Name)
		}
		seen[s.Name] = true
		if _, err := filter(s.Filter); err != nil {
			return err
		}
		if _, err := addressMode(s.Address); err != nil {
			return err
		}
	}
	return nil
}

// ShaderPath returns the shader file path resolved against the manifest's
// directory.
func (m *Manifest) ShaderPath() (string, error) {
	p, err := homedir.Expand(m.Shader)
	if err != nil {
		return "", fmt.Errorf("manifest: %w", err)
	}
	if filepath.IsAbs(p) || m.dir == "" {
		return p, nil
	}
	return filepath.Join(m.dir, p), nil
}

// DefineList returns the defines sorted by name.
func (m *Manifest) DefineList() []technique.Define {
	names := make([]string, 0, len(m.Defines))
	for name := range m.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	defines := make([]technique.Define, len(names))
	for i, name := range names {
		defines[i] = technique.Define{Name: name, Value: m.Defines[name]}
	}
	return defines
}

// Build creates the states and shaders of m on t, states first, then
// vertex, pixel and geometry, then compute. It stops at the first failure.
// Samplers are returned by name; the caller owns them.
func (m *Manifest) Build(t *technique.Technique) (map[string]technique.Sampler, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	t.SetStencilRef(m.StencilRef)

	if r := m.Rasterizer; r != nil {
		fill, _ := fillMode(r.Fill)
		cull, _ := cullMode(r.Cull)
		if err := t.CreateDefaultRasterizerState(fill, cull, r.FrontCCW); err != nil {
			return nil, err
		}
	}
	if d := m.Depth; d != nil {
		write := technique.DepthWriteMaskZero
		if d.Write {
			write = technique.DepthWriteMaskAll
		}
		if err := t.CreateDefaultDepthState(d.Enable, write); err != nil {
			return nil, err
		}
	}
	if m.Blend != nil {
		desc, _ := blendDesc(m.Blend.Mode)
		if err := t.CreateBlendState(&desc); err != nil {
			return nil, err
		}
	}

	path, err := m.ShaderPath()
	if err != nil {
		return nil, err
	}
	defines := m.DefineList()
	e := m.Entries
	if err := t.CreateShadersFromFile(path, e.Vertex, e.Geometry, e.Pixel, defines); err != nil {
		return nil, err
	}
	if e.Compute != "" {
		if err := t.CreateComputeShaderFromFile(path, e.Compute, defines); err != nil {
			return nil, err
		}
	}

	samplers := make(map[string]technique.Sampler, len(m.Samplers))
	for _, s := range m.Samplers {
		f, _ := filter(s.Filter)
		a, _ := addressMode(s.Address)
		smp, err := t.CreateSampler(f, a)
		if err != nil {
			for _, made := range samplers {
				made.Release()
			}
			return nil, fmt.Errorf("sampler %q: %w", s.Name, err)
		}
		samplers[s.Name] = smp
	}
	return samplers, nil
}

func fillMode(s string) (technique.FillMode, error) {
	switch s {
	case "", "solid":
		return technique.FillSolid, nil
	case "wireframe":
		return technique.FillWireframe, nil
	}
	return 0, fmt.Errorf("%w: fill %q", ErrInvalid, s)
}

func cullMode(s string) (gputypes.CullMode, error) {
	switch s {
	case "", "none":
		return gputypes.CullModeNone, nil
	case "front":
		return gputypes.CullModeFront, nil
	case "back":
		return gputypes.CullModeBack, nil
	}
	return 0, fmt.Errorf("%w: cull %q", ErrInvalid, s)
}

func blendDesc(mode string) (technique.BlendDesc, error) {
	desc := technique.DefaultBlendDesc()
	var src gputypes.BlendFactor
	switch mode {
	case "", "opaque":
		return desc, nil
	case "premultiplied":
		src = gputypes.BlendFactorOne
	case "alpha":
		src = gputypes.BlendFactorSrcAlpha
	default:
		return desc, fmt.Errorf("%w: blend mode %q", ErrInvalid, mode)
	}
	rt := &desc.RenderTarget[0]
	rt.BlendEnable = true
	rt.SrcBlend = src
	rt.DestBlend = gputypes.BlendFactorOneMinusSrcAlpha
	rt.BlendOp = gputypes.BlendOperationAdd
	rt.SrcBlendAlpha = gputypes.BlendFactorOne
	rt.DestBlendAlpha = gputypes.BlendFactorOneMinusSrcAlpha
	rt.BlendOpAlpha = gputypes.BlendOperationAdd
	return desc, nil
}

func filter(s string) (technique.Filter, error) {
	switch s {
	case "", "point":
		return technique.FilterMinMagMipPoint, nil
	case "linear":
		return technique.FilterMinMagMipLinear, nil
	case "linear-mip-point":
		return technique.FilterMinMagLinearMipPoint, nil
	}
	return technique.Filter{}, fmt.Errorf("%w: filter %q", ErrInvalid, s)
}

func addressMode(s string) (gputypes.AddressMode, error) {
	switch s {
	case "", "clamp":
		return gputypes.AddressModeClampToEdge, nil
	case "repeat":
		return gputypes.AddressModeRepeat, nil
	case "mirror":
		return gputypes.AddressModeMirrorRepeat, nil
	}
	return 0, fmt.Errorf("%w: address mode %q", ErrInvalid, s)
}
