//go:build !ringbuf_debug

package ringbuf

// debugAssert is a no-op in release builds, mirroring the original C
// library's ASSERT() macro being compiled out in non-debug builds. Build
// with -tags ringbuf_debug to turn these into panics during development.
func debugAssert(cond bool, msg string) {}
