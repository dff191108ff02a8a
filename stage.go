package technique

import (
	"strings"

	"github.com/gogpu/naga/hlsl"
)

// Stage identifies a programmable pipeline stage.
type Stage uint8

// Pipeline stages in pipeline order. Hull and Domain cannot be compiled by a
// technique; Apply always binds them empty.
const (
	StageVertex Stage = iota
	StageHull
	StageDomain
	StageGeometry
	StagePixel
	StageCompute

	// StageCount is the number of stages.
	StageCount
)

var stageNames = [StageCount]string{
	StageVertex:   "vertex",
	StageHull:     "hull",
	StageDomain:   "domain",
	StageGeometry: "geometry",
	StagePixel:    "pixel",
	StageCompute:  "compute",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	if s < StageCount {
		return stageNames[s]
	}
	return "unknown"
}

// ShaderModel is the shader model every profile is bound to.
const ShaderModel = hlsl.ShaderModel5_0

// Profile is a compiler target such as "vs_5_0".
type Profile string

// Stage returns the stage the profile compiles for.
// ok is false when the prefix is not one of vs, gs, ps, cs.
func (p Profile) Stage() (stage Stage, ok bool) {
	prefix, _, found := strings.Cut(string(p), "_")
	if !found {
		return 0, false
	}
	for s := range stageTable {
		if stageTable[s].prefix != "" && stageTable[s].prefix == prefix {
			return Stage(s), true
		}
	}
	return 0, false
}

// stageInfo carries everything that differs between the stage creation
// operations.
type stageInfo struct {
	prefix string

	// op names the Device method for error reports.
	op     string
	create func(Device, []byte) (Shader, error)

	// retainByteCode keeps the compiled byte-code after the shader is
	// created; input-layout setup needs the vertex signature.
	retainByteCode bool
}

var stageTable = [StageCount]stageInfo{
	StageVertex: {
		prefix:         "vs",
		op:             "CreateVertexShader",
		create:         Device.CreateVertexShader,
		retainByteCode: true,
	},
	StageGeometry: {
		prefix: "gs",
		op:     "CreateGeometryShader",
		create: Device.CreateGeometryShader,
	},
	StagePixel: {
		prefix: "ps",
		op:     "CreatePixelShader",
		create: Device.CreatePixelShader,
	},
	StageCompute: {
		prefix: "cs",
		op:     "CreateComputeShader",
		create: Device.CreateComputeShader,
	},
}

// Profile returns the compile profile of the stage, e.g. "ps_5_0".
// Hull and domain return "".
func (s Stage) Profile() Profile {
	if s >= StageCount || stageTable[s].prefix == "" {
		return ""
	}
	return Profile(stageTable[s].prefix + "_" + ShaderModel.ProfileSuffix())
}
