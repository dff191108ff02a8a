// Command techc compiles a technique and creates it on a GPU device.
//
// Usage:
//
//	techc -manifest lit.toml
//	techc -file lit.wgsl -vs vs_main -ps fs_main -D "USE_FOG=true FOG_DENSITY=0.25"
//	techc -file lit.wgsl -ps fs_main -target hlsl
//
// With the default spirv target every stage is compiled, created on a noop
// or Vulkan HAL device and bound, and a render or compute pipeline is built
// from the bound state. Other targets only print the generated source.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/mattn/go-shellwords"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/technique"
	"github.com/gogpu/technique/compiler"
	"github.com/gogpu/technique/halgpu"
	"github.com/gogpu/technique/manifest"
	"github.com/gogpu/technique/prompt"
)

type config struct {
	manifest    string
	file        string
	vs, gs, ps  string
	cs          string
	defines     string
	target      string
	backend     string
	interactive bool
	verbose     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.manifest, "manifest", "", "technique manifest (.toml or .yaml)")
	flag.StringVar(&cfg.file, "file", "", "WGSL source file")
	flag.StringVar(&cfg.vs, "vs", "", "vertex entry point")
	flag.StringVar(&cfg.gs, "gs", "", "geometry entry point")
	flag.StringVar(&cfg.ps, "ps", "", "pixel entry point")
	flag.StringVar(&cfg.cs, "cs", "", "compute entry point")
	flag.StringVar(&cfg.defines, "D", "", "defines, shell-quoted NAME=VALUE words")
	flag.StringVar(&cfg.target, "target", "spirv", "output: spirv, hlsl, glsl or msl")
	flag.StringVar(&cfg.backend, "backend", "noop", "HAL backend: noop or vulkan")
	flag.BoolVar(&cfg.interactive, "interactive", false, "prompt to retry failed compiles")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	if cfg.verbose {
		technique.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(&cfg, os.Stdout); err != nil {
		log.Fatalf("techc: %v", err)
	}
}

func run(cfg *config, out io.Writer) error {
	m, err := loadManifest(cfg)
	if err != nil {
		return err
	}
	target, err := compiler.ParseTarget(cfg.target)
	if err != nil {
		return err
	}
	comp := compiler.New(compiler.WithTarget(target))
	if target != compiler.TargetSPIRV {
		return emitSource(comp, m, out)
	}

	dev, closeDevice, err := openDevice(cfg.backend)
	if err != nil {
		return err
	}
	defer closeDevice()

	hd := halgpu.NewDevice(dev)
	ctx := halgpu.NewContext(hd)
	defer ctx.Destroy()

	opts := []technique.Option{
		technique.WithDevice(hd),
		technique.WithContext(ctx),
		technique.WithCompiler(comp),
	}
	if cfg.interactive {
		opts = append(opts, technique.WithRetryPolicy(prompt.Terminal(os.Stdin, os.Stderr)))
	}
	tech := technique.New(opts...)
	defer tech.Release()

	samplers, err := m.Build(tech)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range samplers {
			s.Release()
		}
	}()

	tech.Apply()
	return summarize(out, tech, ctx, dev, len(samplers))
}

// loadManifest reads -manifest or builds a manifest from the per-stage flags.
func loadManifest(cfg *config) (*manifest.Manifest, error) {
	if cfg.manifest != "" {
		if cfg.file != "" {
			return nil, errors.New("-manifest and -file are exclusive")
		}
		return manifest.Load(cfg.manifest)
	}
	if cfg.file == "" {
		return nil, errors.New("one of -manifest or -file is required")
	}
	defines, err := parseDefines(cfg.defines)
	if err != nil {
		return nil, err
	}
	m := &manifest.Manifest{
		Shader:  cfg.file,
		Defines: defines,
		Entries: manifest.Entries{Vertex: cfg.vs, Geometry: cfg.gs, Pixel: cfg.ps, Compute: cfg.cs},
	}
	return m, m.Validate()
}

// parseDefines splits shell-quoted NAME=VALUE words. A bare NAME defines
// it as true.
func parseDefines(s string) (map[string]string, error) {
	words, err := shellwords.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("-D: %w", err)
	}
	defines := make(map[string]string, len(words))
	for _, w := range words {
		name, value, _ := strings.Cut(w, "=")
		if _, dup := defines[name]; dup {
			return nil, fmt.Errorf("-D: %s defined twice", name)
		}
		defines[name] = value
	}
	return defines, nil
}

func openDevice(backend string) (hal.Device, func(), error) {
	var instance hal.Instance
	switch backend {
	case "noop":
		var api noop.API
		inst, err := api.CreateInstance(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("create noop instance: %w", err)
		}
		instance = inst
	case "vulkan":
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, nil, errors.New("vulkan backend not available")
		}
		inst, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err != nil {
			return nil, nil, fmt.Errorf("create instance: %w", err)
		}
		instance = inst
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, errors.New("no GPU adapters found")
	}
	openDev, err := adapters[0].Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, fmt.Errorf("open device: %w", err)
	}
	technique.Logger().Debug("techc: device opened", slog.String("adapter", adapters[0].Info.Name))
	return openDev.Device, func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}, nil
}

// emitSource prints the generated source of every named entry point.
func emitSource(comp *compiler.Compiler, m *manifest.Manifest, out io.Writer) error {
	path, err := m.ShaderPath()
	if err != nil {
		return err
	}
	stages := []struct {
		stage technique.Stage
		entry string
	}{
		{technique.StageVertex, m.Entries.Vertex},
		{technique.StagePixel, m.Entries.Pixel},
		{technique.StageGeometry, m.Entries.Geometry},
		{technique.StageCompute, m.Entries.Compute},
	}
	for _, s := range stages {
		if s.entry == "" {
			continue
		}
		code, diag, err := comp.Compile(&technique.CompileRequest{
			Path:    path,
			Entry:   s.entry,
			Defines: m.DefineList(),
			Profile: s.stage.Profile(),
			Flags:   technique.FlagStrict,
		})
		if diag != "" {
			fmt.Fprintln(os.Stderr, diag)
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", s.stage, s.entry, err)
		}
		fmt.Fprintf(out, "// %s %s (%s)\n%s\n", s.stage, s.entry, comp.Target(), code)
	}
	return nil
}

func summarize(out io.Writer, tech *technique.Technique, ctx *halgpu.Context, dev hal.Device, samplers int) error {
	for _, stage := range []technique.Stage{technique.StageVertex, technique.StageGeometry, technique.StagePixel, technique.StageCompute} {
		if s := ctx.Shader(stage); s != nil {
			fmt.Fprintf(out, "%-8s %s\n", stage, s.EntryPoint())
		}
	}
	if code := tech.VertexByteCode(); code != nil {
		fmt.Fprintf(out, "vertex byte-code: %d bytes\n", len(code))
	}
	fmt.Fprintf(out, "rasterizer: %t  depth-stencil: %t  blend: %t  samplers: %d  stencil ref: %d\n",
		tech.RasterizerState() != nil, tech.DepthStencilState() != nil, tech.BlendState() != nil,
		samplers, ctx.StencilReference())

	layout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{Label: "techc_layout"})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	defer dev.DestroyPipelineLayout(layout)

	if ctx.Shader(technique.StageVertex) != nil {
		if _, err := ctx.RenderPipeline(layout, nil); err != nil {
			return err
		}
		fmt.Fprintln(out, "render pipeline: ok")
	}
	if ctx.Shader(technique.StageCompute) != nil {
		if _, err := ctx.ComputePipeline(layout); err != nil {
			return err
		}
		fmt.Fprintln(out, "compute pipeline: ok")
	}
	return nil
}
