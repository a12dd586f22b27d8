//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/mix.wgsl
var mixShaderSource string

// mixWorkgroupSize matches @workgroup_size in mix.wgsl.
const mixWorkgroupSize = 64

// maxWorkgroupsPerDim is the WebGPU default limit per dispatch dimension.
const maxWorkgroupsPerDim = 65535

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// dispatchSize splits count invocations into a 2D grid of workgroups. The
// returned stride is the number of invocations per grid row.
func dispatchSize(count int) (x, y, stride uint32) {
	groups := (count + mixWorkgroupSize - 1) / mixWorkgroupSize
	if groups == 0 {
		return 0, 0, 0
	}
	x = uint32(min(groups, maxWorkgroupsPerDim)) //nolint:gosec // bounded above
	y = uint32((groups + int(x) - 1) / int(x))   //nolint:gosec // groups fits uint32 for any addressable buffer
	return x, y, x * mixWorkgroupSize
}
