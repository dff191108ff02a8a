// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compiler implements technique.Compiler on top of the naga WGSL
// compiler.
//
// Source files are WGSL with two preprocessing extensions: lines of the form
// `#include "file"` are replaced by the named file, and every Define becomes a
// module-scope `const` declaration. The requested entry point must exist and
// match the stage of the profile; it is the only entry point left in the
// generated code.
//
// Vertex, pixel and compute profiles are supported. WGSL has no geometry
// stage, so geometry profiles fail with a configuration error.
package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/technique"
)

// Target selects the byte-code format produced by the compiler.
type Target uint8

const (
	// TargetSPIRV produces a SPIR-V binary (the default).
	TargetSPIRV Target = iota

	// TargetHLSL produces HLSL source for technique.ShaderModel.
	TargetHLSL

	// TargetGLSL produces GLSL 3.30 source.
	TargetGLSL

	// TargetMSL produces Metal Shading Language source.
	TargetMSL
)

func (t Target) String() string {
	switch t {
	case TargetSPIRV:
		return "spirv"
	case TargetHLSL:
		return "hlsl"
	case TargetGLSL:
		return "glsl"
	case TargetMSL:
		return "msl"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// ParseTarget parses a target name as printed by Target.String.
func ParseTarget(s string) (Target, error) {
	for t := TargetSPIRV; t <= TargetMSL; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("compiler: unknown target %q", s)
}

// Errors returned (wrapped) by Compile.
var (
	// ErrUnsupportedProfile is returned for profiles WGSL cannot express.
	ErrUnsupportedProfile = fmt.Errorf("%w: unsupported profile", technique.ErrConfiguration)

	// ErrEntryPoint is returned when the entry point is missing or belongs
	// to another stage.
	ErrEntryPoint = errors.New("compiler: entry point")
)

// Compiler compiles WGSL files with naga. The zero value is not usable;
// use New.
type Compiler struct {
	target       Target
	spirvVersion spirv.Version
	fsys         fs.FS
	log          *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTarget selects the output format.
func WithTarget(t Target) Option {
	return func(c *Compiler) {
		c.target = t
	}
}

// WithSPIRVVersion sets the SPIR-V version for TargetSPIRV.
func WithSPIRVVersion(v spirv.Version) Option {
	return func(c *Compiler) {
		c.spirvVersion = v
	}
}

// WithFS reads shader sources (and includes) from fsys instead of the
// operating system. Paths are then slash-separated and relative to fsys.
func WithFS(fsys fs.FS) Option {
	return func(c *Compiler) {
		c.fsys = fsys
	}
}

// WithLogger overrides technique.Logger for this compiler.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		c.log = l
	}
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		target:       TargetSPIRV,
		spirvVersion: spirv.Version1_3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target returns the output format.
func (c *Compiler) Target() Target { return c.target }

var _ technique.Compiler = (*Compiler)(nil)

// Compile implements technique.Compiler.
//
// The diagnostic is empty on a clean compile. On failure it carries the
// compiler messages with file and line resolved through includes; with
// FlagStrict unset, validation problems are reported as warnings in the
// diagnostic of a successful compile.
func (c *Compiler) Compile(req *technique.CompileRequest) ([]byte, string, error) {
	stage, ok := req.Profile.Stage()
	if !ok {
		err := fmt.Errorf("%w %q", ErrUnsupportedProfile, req.Profile)
		return nil, err.Error(), err
	}
	irStage, ok := irStages[stage]
	if !ok {
		err := fmt.Errorf("%w %q: WGSL has no %s stage", ErrUnsupportedProfile, req.Profile, stage)
		return nil, err.Error(), err
	}

	src, err := c.load(req.Path)
	if err != nil {
		return nil, err.Error(), err
	}
	text, err := injectDefines(src.text, req.Defines)
	if err != nil {
		return nil, err.Error(), err
	}
	shift := len(text) - len(src.text)

	c.logger().Debug("compiling shader",
		slog.String("path", req.Path),
		slog.String("entry", req.Entry),
		slog.String("target", c.target.String()),
		slog.Int("lines", len(src.lines)))

	ast, err := naga.Parse(text)
	if err != nil {
		return nil, formatError(src, shift, err), err
	}
	module, err := naga.LowerWithSource(ast, text)
	if err != nil {
		return nil, formatError(src, shift, err), err
	}

	var warnings string
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, formatError(src, shift, err), err
	}
	if len(verrs) > 0 {
		diag := formatValidation(req.Path, verrs, req.Flags.Has(technique.FlagStrict))
		if req.Flags.Has(technique.FlagStrict) {
			return nil, diag, fmt.Errorf("validation failed: %w", verrs[0])
		}
		warnings = diag
	}

	if err := selectEntryPoint(module, req.Entry, irStage); err != nil {
		return nil, fmt.Sprintf("%s: error: %v", req.Path, err), err
	}

	code, err := c.generate(module, req)
	if err != nil {
		return nil, fmt.Sprintf("%s: error: %v", req.Path, err), err
	}
	return code, warnings, nil
}

func (c *Compiler) generate(module *ir.Module, req *technique.CompileRequest) ([]byte, error) {
	switch c.target {
	case TargetSPIRV:
		return naga.GenerateSPIRV(module, spirv.Options{
			Version: c.spirvVersion,
			Debug:   req.Flags.Has(technique.FlagDebug),
		})
	case TargetHLSL:
		opts := hlsl.DefaultOptions()
		opts.ShaderModel = technique.ShaderModel
		opts.EntryPoint = req.Entry
		code, _, err := hlsl.Compile(module, opts)
		return []byte(code), err
	case TargetGLSL:
		opts := glsl.DefaultOptions()
		opts.EntryPoint = req.Entry
		if req.Flags.Has(technique.FlagDebug) {
			opts.WriterFlags |= glsl.WriterFlagDebugInfo
		}
		code, _, err := glsl.Compile(module, opts)
		return []byte(code), err
	case TargetMSL:
		code, _, err := msl.Compile(module, msl.DefaultOptions())
		return []byte(code), err
	default:
		return nil, fmt.Errorf("%w: unknown target %v", technique.ErrConfiguration, c.target)
	}
}

// irStages maps technique stages to WGSL entry point stages.
var irStages = map[technique.Stage]ir.ShaderStage{
	technique.StageVertex:  ir.StageVertex,
	technique.StagePixel:   ir.StageFragment,
	technique.StageCompute: ir.StageCompute,
}

// selectEntryPoint reduces module to the named entry point.
func selectEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) error {
	for _, ep := range module.EntryPoints {
		if ep.Name != name {
			continue
		}
		if ep.Stage != stage {
			return fmt.Errorf("%w %q is a %s entry point, want %s", ErrEntryPoint, name, stageName(ep.Stage), stageName(stage))
		}
		module.EntryPoints = []ir.EntryPoint{ep}
		return nil
	}
	names := make([]string, 0, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		names = append(names, ep.Name)
	}
	return fmt.Errorf("%w %q not found (have %v)", ErrEntryPoint, name, names)
}

func stageName(s ir.ShaderStage) string {
	switch s {
	case ir.StageVertex:
		return "@vertex"
	case ir.StageFragment:
		return "@fragment"
	case ir.StageCompute:
		return "@compute"
	default:
		return "unknown"
	}
}

func (c *Compiler) readFile(name string) ([]byte, error) {
	if c.fsys != nil {
		return fs.ReadFile(c.fsys, name)
	}
	return os.ReadFile(name)
}

func (c *Compiler) join(dir, name string) string {
	if c.fsys != nil {
		return path.Join(dir, name)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func (c *Compiler) dir(name string) string {
	if c.fsys != nil {
		return path.Dir(name)
	}
	return filepath.Dir(name)
}

func (c *Compiler) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return technique.Logger()
}
