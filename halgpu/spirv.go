package halgpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/technique"
)

// SPIR-V decoding errors.
var (
	// ErrNotSPIRV is returned for byte-code without a SPIR-V header.
	ErrNotSPIRV = errors.New("halgpu: byte-code is not SPIR-V")

	// ErrEntryPoint is returned when the byte-code has no entry point for
	// the requested stage.
	ErrEntryPoint = errors.New("halgpu: no entry point for stage")
)

// spirvHeaderWords is the size of the SPIR-V module header.
const spirvHeaderWords = 5

// executionModelGeometry is the SPIR-V execution model of geometry shaders.
const executionModelGeometry = spirv.ExecutionModel(3)

// spirvWords converts little-endian SPIR-V bytes into words.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) < spirvHeaderWords*4 || len(code)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotSPIRV, len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != uint32(spirv.MagicNumber) {
		return nil, fmt.Errorf("%w: magic %#08x", ErrNotSPIRV, words[0])
	}
	return words, nil
}

// entryPoint is one OpEntryPoint of a SPIR-V module.
type entryPoint struct {
	model spirv.ExecutionModel
	name  string
}

// entryPoints lists the OpEntryPoint instructions of words.
func entryPoints(words []uint32) ([]entryPoint, error) {
	var eps []entryPoint
	for i := spirvHeaderWords; i < len(words); {
		count := int(words[i] >> 16)
		op := spirv.OpCode(words[i] & 0xFFFF)
		if count == 0 || i+count > len(words) {
			return nil, fmt.Errorf("%w: truncated instruction at word %d", ErrNotSPIRV, i)
		}
		if op == spirv.OpEntryPoint && count >= 4 {
			eps = append(eps, entryPoint{
				model: spirv.ExecutionModel(words[i+1]),
				name:  literalString(words[i+3 : i+count]),
			})
		}
		i += count
	}
	return eps, nil
}

// literalString decodes a nul-terminated SPIR-V literal string.
func literalString(words []uint32) string {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		for b := 0; b < 4; b++ {
			c := byte(w >> (8 * b))
			if c == 0 {
				return string(buf)
			}
			buf = append(buf, c)
		}
	}
	return string(buf)
}

// executionModel returns the SPIR-V execution model of a stage.
func executionModel(stage technique.Stage) (spirv.ExecutionModel, bool) {
	switch stage {
	case technique.StageVertex:
		return spirv.ExecutionModelVertex, true
	case technique.StageGeometry:
		return executionModelGeometry, true
	case technique.StagePixel:
		return spirv.ExecutionModelFragment, true
	case technique.StageCompute:
		return spirv.ExecutionModelGLCompute, true
	default:
		return 0, false
	}
}

// findEntryPoint returns the name of the first entry point of stage.
func findEntryPoint(words []uint32, stage technique.Stage) (string, error) {
	model, ok := executionModel(stage)
	if !ok {
		return "", fmt.Errorf("%w %s", ErrEntryPoint, stage)
	}
	eps, err := entryPoints(words)
	if err != nil {
		return "", err
	}
	for _, ep := range eps {
		if ep.model == model {
			return ep.name, nil
		}
	}
	return "", fmt.Errorf("%w %s (module has %d entry points)", ErrEntryPoint, stage, len(eps))
}
