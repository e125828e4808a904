package pluginhost

import (
	"testing"

	"github.com/klknn/hibiki/pkg/framework/process"
)

func TestMockFilterAttenuatesHighFrequency(t *testing.T) {
	p, _ := Load("mock.filter", 0, 48000)
	f := p.(*mockFilter)
	f.Parameters().Get(filterParamCutoff).SetPlainValue(200)

	const n = 512
	in := make([]float32, n)
	for i := range in {
		// High-frequency alternating signal, well above the 200 Hz cutoff.
		if i%2 == 0 {
			in[i] = 1
		} else {
			in[i] = -1
		}
	}

	ctx := process.NewContext(n, f.Parameters())
	ctx.Input = [][]float32{append([]float32{}, in...), append([]float32{}, in...)}
	ctx.Output = [][]float32{make([]float32, n), make([]float32, n)}
	ctx.SampleRate = 48000

	f.Process(ctx, process.HostContext{}, nil)

	var inEnergy, outEnergy float64
	for i := range in {
		inEnergy += float64(in[i] * in[i])
		outEnergy += float64(ctx.Output[0][i] * ctx.Output[0][i])
	}
	if outEnergy >= inEnergy {
		t.Errorf("lowpassed energy %v should be less than input energy %v", outEnergy, inEnergy)
	}
}
