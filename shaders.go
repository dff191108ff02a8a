package technique

import (
	"fmt"
	"log/slog"
)

// CreateShaderFromFile compiles entry from the source file at path for the
// profile of stage and installs the resulting shader in the stage's slot.
//
// The previous shader of the slot (and, for the vertex stage, the retained
// byte-code) is released first, whatever the outcome. Without a Device the
// call fails with ErrNoDevice before the compiler runs. Compiler failures
// are returned as *CompileError, Device failures as *DeviceError; in both
// cases the slot is left empty.
func (t *Technique) CreateShaderFromFile(stage Stage, path, entry string, defines []Define) error {
	profile := stage.Profile()
	if profile == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedStage, stage)
	}
	info := &stageTable[stage]

	t.releaseShader(stage)
	if info.retainByteCode {
		t.vsByteCode = nil
	}

	if t.device == nil {
		return ErrNoDevice
	}

	code, err := t.compile(path, entry, defines, profile)
	if err != nil {
		return err
	}

	shader, err := info.create(t.device, code)
	if err != nil {
		return deviceError(info.op, err)
	}
	t.shaders[stage] = shader
	if info.retainByteCode {
		t.vsByteCode = code
	}

	t.logger().Debug("created shader",
		slog.String("stage", stage.String()),
		slog.String("entry", entry),
		slog.Int("bytes", len(code)))
	return nil
}

// CreateVertexShaderFromFile compiles and installs the vertex shader and
// retains its byte-code (see VertexByteCode).
func (t *Technique) CreateVertexShaderFromFile(path, entry string, defines []Define) error {
	return t.CreateShaderFromFile(StageVertex, path, entry, defines)
}

// CreateGeometryShaderFromFile compiles and installs the geometry shader.
func (t *Technique) CreateGeometryShaderFromFile(path, entry string, defines []Define) error {
	return t.CreateShaderFromFile(StageGeometry, path, entry, defines)
}

// CreatePixelShaderFromFile compiles and installs the pixel shader.
func (t *Technique) CreatePixelShaderFromFile(path, entry string, defines []Define) error {
	return t.CreateShaderFromFile(StagePixel, path, entry, defines)
}

// CreateComputeShaderFromFile compiles and installs the compute shader.
func (t *Technique) CreateComputeShaderFromFile(path, entry string, defines []Define) error {
	return t.CreateShaderFromFile(StageCompute, path, entry, defines)
}

// CreateShadersFromFile creates the vertex, pixel and geometry shaders, in
// that order, from one source file. An empty entry name skips its stage.
// The first failure is returned and the remaining stages are not attempted.
func (t *Technique) CreateShadersFromFile(path, vsEntry, gsEntry, psEntry string, defines []Define) error {
	// Pixel before geometry: callers rely on this early-exit order.
	steps := [...]struct {
		stage Stage
		entry string
	}{
		{StageVertex, vsEntry},
		{StagePixel, psEntry},
		{StageGeometry, gsEntry},
	}
	for _, step := range steps {
		if step.entry == "" {
			continue
		}
		if err := t.CreateShaderFromFile(step.stage, path, step.entry, defines); err != nil {
			return err
		}
	}
	return nil
}
