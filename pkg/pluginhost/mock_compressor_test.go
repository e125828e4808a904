package pluginhost

import (
	"testing"

	"github.com/klknn/hibiki/pkg/framework/process"
)

func TestMockCompressorReducesLoudSignal(t *testing.T) {
	p, _ := Load("mock.compressor", 0, 48000)
	c := p.(*mockCompressor)
	c.Parameters().Get(compParamThreshold).SetPlainValue(-40)
	c.Parameters().Get(compParamRatio).SetPlainValue(10)

	const n = 1024
	in := make([]float32, n)
	for i := range in {
		in[i] = 0.9
	}

	ctx := process.NewContext(n, c.Parameters())
	ctx.Input = [][]float32{append([]float32{}, in...), append([]float32{}, in...)}
	ctx.Output = [][]float32{make([]float32, n), make([]float32, n)}

	c.Process(ctx, process.HostContext{}, nil)

	// After the envelope settles, gain reduction should pull the tail well
	// below the unity-gain input level.
	if last := ctx.Output[0][n-1]; last >= in[n-1] {
		t.Errorf("Output[0][last] = %v, want compressed below input %v", last, in[n-1])
	}
}
