// gpu_shaders.go - Embedded SPIR-V compute shaders for the Vulkan pipeline

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

// This file holds placeholder SPIR-V for the optional GPU path (spec.md
// §4.13, expansion). SplatShaderSPV and DecayShaderSPV are each a bare
// 20-byte SPIR-V header with no instructions, so neither performs the beam
// splat or the decay multiply. The GLSL kept below as comments outlines
// the two kernels (the splat body is only a comment), following the
// vertex/fragment placeholder pattern this file is adapted from. To
// generate SPIR-V from GLSL:
//
//   glslc -fshader-stage=compute splat.glsl -o splat.spv
//   glslc -fshader-stage=compute decay.glsl -o decay.spv

package main

// Beam splat compute shader GLSL source (for reference)
//
// #version 450
// layout(local_size_x = 64) in;
//
// struct Sample { float x, y, intensity, dtSec; };
// layout(std430, binding = 0) readonly buffer Samples { Sample s[]; };
// layout(std430, binding = 1) buffer Accum { float layer[]; };
//
// layout(push_constant) uniform PushConstants {
//     int width, height, bands, layerStride;
//     float sigmaPixels;
// } pc;
//
// void main() {
//     uint i = gl_GlobalInvocationID.x;
//     if (i >= s.length()) return;
//     // Splat sample i into Accum using an isotropic Gaussian kernel,
//     // mirroring writePoint in gpu_pipeline_software.go.
// }

// Per-layer decay compute shader GLSL source (for reference)
//
// #version 450
// layout(local_size_x = 64) in;
// layout(std430, binding = 0) buffer Accum { float layer[]; };
// layout(push_constant) uniform PushConstants {
//     float multiplier;
//     float threshold;
// } pc;
//
// void main() {
//     uint i = gl_GlobalInvocationID.x;
//     float v = layer[i] * pc.multiplier;
//     layer[i] = v < pc.threshold ? 0.0 : v;
// }

// SplatShaderSPV is a placeholder for the compiled beam-splat compute
// shader. Real SPIR-V would be generated by glslc from the GLSL above.
var SplatShaderSPV = []byte{
	0x03, 0x02, 0x23, 0x07, // SPIR-V magic number
	0x00, 0x00, 0x01, 0x00, // Version 1.0
	0x00, 0x00, 0x00, 0x00, // Generator magic
	0x00, 0x00, 0x00, 0x00, // Bound
	0x00, 0x00, 0x00, 0x00, // Schema
}

// DecayShaderSPV is a placeholder for the compiled per-layer decay
// compute shader.
var DecayShaderSPV = []byte{
	0x03, 0x02, 0x23, 0x07,
	0x00, 0x00, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// SplatPushConstants mirrors the push_constant block in the splat shader.
type SplatPushConstants struct {
	Width       int32
	Height      int32
	Bands       int32
	LayerStride int32
	SigmaPixels float32
}

// DecayPushConstants mirrors the push_constant block in the decay shader.
type DecayPushConstants struct {
	Multiplier float32
	Threshold  float32
}
