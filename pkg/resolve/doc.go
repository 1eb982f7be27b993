// Package resolve implements the mock resolution engine: given a normalized
// request descriptor and an indexed specification, it decides which
// operation matches, which response variant to emit, and what body to
// produce, either from a declared example or by schema-driven generation.
//
// Resolution performs no I/O and has no suspension points; the only
// non-determinism is the flaky-failure draw, which sits behind an
// injectable random source.
package resolve
