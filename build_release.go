//go:build !debug

package technique

// debugBuild is false in release builds. Optimization levels are never
// requested in either configuration.
const debugBuild = false
