package halgpu

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/gogpu/gputypes"
)

// renderKey hashes everything that goes into a render pipeline descriptor
// except the pipeline layout, which is compared by identity.
func (c *Context) renderKey(buffers []gputypes.VertexBufferLayout) uint64 {
	h := fnv.New64a()

	for _, stage := range renderStages {
		hashWriteShader(h, c.shaders[stage])
	}

	//nolint:gosec // G115: vertex buffer count is bounded by GPU limits (< 16)
	hashWriteUint32(h, uint32(len(buffers)))
	for i := range buffers {
		layout := &buffers[i]
		hashWriteUint64(h, uint64(layout.ArrayStride))
		hashWriteUint32(h, uint32(layout.StepMode))
		//nolint:gosec // G115: attribute count is bounded by GPU limits (< 32)
		hashWriteUint32(h, uint32(len(layout.Attributes)))
		for j := range layout.Attributes {
			attr := &layout.Attributes[j]
			hashWriteUint32(h, uint32(attr.ShaderLocation))
			hashWriteUint32(h, uint32(attr.Format))
			hashWriteUint64(h, uint64(attr.Offset))
		}
	}

	prim := c.primitive()
	hashWriteUint32(h, uint32(prim.Topology))
	hashWriteUint32(h, uint32(prim.FrontFace))
	hashWriteUint32(h, uint32(prim.CullMode))

	//nolint:gosec // G115: at most MaxRenderTargets formats
	hashWriteUint32(h, uint32(len(c.opts.colorFormats)))
	for i, f := range c.opts.colorFormats {
		hashWriteUint32(h, uint32(f))
		blend, mask := c.target(i)
		hashWriteUint32(h, uint32(mask))
		hashWriteBool(h, blend != nil)
		if blend != nil {
			hashWriteUint32(h, uint32(blend.Color.SrcFactor))
			hashWriteUint32(h, uint32(blend.Color.DstFactor))
			hashWriteUint32(h, uint32(blend.Color.Operation))
			hashWriteUint32(h, uint32(blend.Alpha.SrcFactor))
			hashWriteUint32(h, uint32(blend.Alpha.DstFactor))
			hashWriteUint32(h, uint32(blend.Alpha.Operation))
		}
	}

	hashWriteUint32(h, uint32(c.opts.depthFormat))
	ds := c.depthStencil
	hashWriteBool(h, ds != nil)
	if ds != nil {
		d := ds.desc
		hashWriteBool(h, d.DepthEnable)
		hashWriteUint32(h, uint32(d.DepthWriteMask))
		hashWriteUint32(h, uint32(d.DepthFunc))
		hashWriteBool(h, d.StencilEnable)
		hashWriteUint32(h, uint32(d.StencilReadMask)<<8|uint32(d.StencilWriteMask))
		for _, f := range [...]struct{ fail, depthFail, pass, fn uint32 }{
			{uint32(d.FrontFace.FailOp), uint32(d.FrontFace.DepthFailOp), uint32(d.FrontFace.PassOp), uint32(d.FrontFace.Func)},
			{uint32(d.BackFace.FailOp), uint32(d.BackFace.DepthFailOp), uint32(d.BackFace.PassOp), uint32(d.BackFace.Func)},
		} {
			hashWriteUint32(h, f.fail)
			hashWriteUint32(h, f.depthFail)
			hashWriteUint32(h, f.pass)
			hashWriteUint32(h, f.fn)
		}
	}

	hashWriteUint32(h, c.opts.sampleCount)
	hashWriteUint32(h, c.sampleMask)

	return h.Sum64()
}

// computeKey hashes the compute shader.
func (c *Context) computeKey() uint64 {
	h := fnv.New64a()
	hashWriteShader(h, c.shaders[computeStage])
	return h.Sum64()
}

// hashWriteShader hashes a recorded shader. A released shader hashes like
// no shader, matching how the descriptors skip it.
func hashWriteShader(h hash.Hash64, s *Shader) {
	if s == nil || s.module == nil {
		hashWriteUint64(h, 0)
		return
	}
	hashWriteUint64(h, s.codeHash)
	hashWriteString(h, s.entry)
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

//nolint:gosec // G115: entry point names are short
func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
