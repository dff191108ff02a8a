//go:build debug

package technique

// debugBuild embeds debug information in compiled shaders.
const debugBuild = true
