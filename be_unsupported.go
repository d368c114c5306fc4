//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The spectral/audio pipeline reinterprets byte slices as uint32/float32
// samples via unsafe.Pointer, which assumes little-endian byte order.
var _ = "phosphor requires a little-endian architecture" + 1
