// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package halgpu implements technique.Device and technique.Context on a
// gogpu/wgpu HAL device.
//
// Shaders are SPIR-V modules (see package compiler). Fixed-function state
// objects are immutable descriptor snapshots: WebGPU bakes rasterizer,
// depth-stencil and blend state into pipelines, so the Context records what
// a technique binds and builds render or compute pipelines from it on demand.
//
// Geometry shaders, wireframe fill and disabled depth clipping have no
// WebGPU equivalent and are reported as ErrUnsupported.
package halgpu

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/technique"
)

var (
	// ErrUnsupported is returned for features WebGPU cannot express.
	ErrUnsupported = errors.New("halgpu: unsupported by WebGPU")

	// ErrNoHALDevice is returned by FromProvider when the provider does not
	// expose a HAL device.
	ErrNoHALDevice = errors.New("halgpu: provider does not expose a HAL device")
)

// Device creates technique objects on a HAL device. It borrows the HAL
// device and never destroys it.
type Device struct {
	raw hal.Device
}

var _ technique.Device = (*Device)(nil)

// NewDevice wraps a HAL device.
func NewDevice(raw hal.Device) *Device {
	return &Device{raw: raw}
}

// FromProvider wraps the HAL device of a gpucontext provider (for example a
// gogpu window). The provider must implement HalDevice() any returning a
// hal.Device.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	raw, ok := hp.HalDevice().(hal.Device)
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHALDevice, hp.HalDevice())
	}
	return NewDevice(raw), nil
}

// Raw returns the wrapped HAL device.
func (d *Device) Raw() hal.Device { return d.raw }

// CreateVertexShader creates a vertex shader module from SPIR-V.
func (d *Device) CreateVertexShader(code []byte) (technique.Shader, error) {
	return d.createShader(technique.StageVertex, code)
}

// CreateGeometryShader always fails: WebGPU has no geometry stage.
func (d *Device) CreateGeometryShader([]byte) (technique.Shader, error) {
	return nil, fmt.Errorf("%w: geometry shaders", ErrUnsupported)
}

// CreatePixelShader creates a fragment shader module from SPIR-V.
func (d *Device) CreatePixelShader(code []byte) (technique.Shader, error) {
	return d.createShader(technique.StagePixel, code)
}

// CreateComputeShader creates a compute shader module from SPIR-V.
func (d *Device) CreateComputeShader(code []byte) (technique.Shader, error) {
	return d.createShader(technique.StageCompute, code)
}

func (d *Device) createShader(stage technique.Stage, code []byte) (technique.Shader, error) {
	words, err := spirvWords(code)
	if err != nil {
		return nil, err
	}
	entry, err := findEntryPoint(words, stage)
	if err != nil {
		return nil, err
	}
	module, err := d.raw.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  stage.String() + ":" + entry,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", stage, err)
	}

	h := fnv.New64a()
	_, _ = h.Write(code)

	technique.Logger().Debug("halgpu: shader module created",
		slog.String("stage", stage.String()),
		slog.String("entry", entry),
		slog.Int("words", len(words)))
	return &Shader{
		device:   d.raw,
		module:   module,
		stage:    stage,
		entry:    entry,
		codeHash: h.Sum64(),
	}, nil
}

// Shader is a HAL shader module with the entry point it was created for.
type Shader struct {
	device   hal.Device
	module   hal.ShaderModule
	stage    technique.Stage
	entry    string
	codeHash uint64
}

// Release destroys the shader module. Further calls do nothing.
func (s *Shader) Release() {
	if s.module == nil {
		return
	}
	s.device.DestroyShaderModule(s.module)
	s.module = nil
}

// Raw returns the HAL shader module, or nil after Release.
func (s *Shader) Raw() hal.ShaderModule { return s.module }

// Stage returns the stage the module was created for.
func (s *Shader) Stage() technique.Stage { return s.stage }

// EntryPoint returns the entry point name found in the byte-code.
func (s *Shader) EntryPoint() string { return s.entry }
