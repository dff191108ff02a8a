// Package technique compiles shader source files into GPU shader stages and
// bundles them with fixed-function pipeline state for one rendering technique.
//
// # Overview
//
// A Technique holds at most one vertex, geometry, pixel and compute shader,
// one rasterizer, depth-stencil and blend state, and the byte-code of the
// vertex shader (needed to describe input layouts). Slots are created lazily
// and independently, and Apply binds all of them to a Context in one call.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/technique"
//	    "github.com/gogpu/technique/compiler"
//	    "github.com/gogpu/technique/halgpu"
//	)
//
//	dev := halgpu.NewDevice(halDevice)
//	ctx := halgpu.NewContext(dev)
//	tech := technique.New(
//	    technique.WithDevice(dev),
//	    technique.WithContext(ctx),
//	    technique.WithCompiler(compiler.New()),
//	)
//	defer tech.Release()
//
//	if err := tech.CreateShadersFromFile("sprite.wgsl", "vs_main", "", "fs_main", nil); err != nil {
//	    return err
//	}
//	_ = tech.CreateDefaultRasterizerState(technique.FillSolid, gputypes.CullModeBack, false)
//	_ = tech.CreateDefaultDepthState(true, technique.DepthWriteMaskAll)
//	_ = tech.CreateDefaultBlendState()
//	tech.Apply()
//
// # Compilation and retries
//
// Shader compilation goes through a Compiler (see package compiler for the
// naga-based WGSL implementation). A failed compilation is offered to the
// RetryPolicy, which may ask for the same request to be compiled again after
// the source file has been fixed. The default policy makes a single attempt;
// package prompt provides an interactive terminal policy for development.
//
// Builds with the "debug" tag request embedded debug information from the
// compiler.
//
// # Errors
//
// Configuration errors (no Device, no Compiler, a stage without profile)
// satisfy errors.Is(err, ErrConfiguration). Compiler failures are
// *CompileError and Device failures are *DeviceError.
//
// # Lifetime
//
// The Device and Context are borrowed: the technique never releases them and
// they must outlive it. Release tears down every held object and unbinds the
// Device and Context.
package technique
