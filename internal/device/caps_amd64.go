//go:build amd64

package device

import "golang.org/x/sys/cpu"

func cpuFeatures() []string {
	var features []string
	if cpu.X86.HasSSE42 {
		features = append(features, "sse4.2")
	}
	if cpu.X86.HasAVX2 {
		features = append(features, "avx2")
	}
	if cpu.X86.HasFMA {
		features = append(features, "fma")
	}
	if cpu.X86.HasAVX512F {
		features = append(features, "avx512f")
	}
	if cpu.X86.HasAVX512VL {
		features = append(features, "avx512vl")
	}
	return features
}
