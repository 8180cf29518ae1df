//go:build !amd64 && !arm64

package device

func cpuFeatures() []string {
	return nil
}
