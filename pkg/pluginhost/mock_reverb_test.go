package pluginhost

import (
	"testing"

	"github.com/klknn/hibiki/pkg/framework/process"
)

func TestMockReverbAddsTailAfterImpulse(t *testing.T) {
	p, _ := Load("mock.reverb", 0, 48000)
	r := p.(*mockReverb)
	r.Parameters().Get(reverbParamWet).SetPlainValue(1)

	const n = 2048
	in := make([]float32, n)
	in[0] = 1

	ctx := process.NewContext(n, r.Parameters())
	ctx.Input = [][]float32{append([]float32{}, in...), append([]float32{}, in...)}
	ctx.Output = [][]float32{make([]float32, n), make([]float32, n)}
	ctx.SampleRate = 48000

	r.Process(ctx, process.HostContext{}, nil)

	var tailEnergy float64
	for i := n / 2; i < n; i++ {
		tailEnergy += float64(ctx.Output[0][i] * ctx.Output[0][i])
	}
	if tailEnergy == 0 {
		t.Error("expected a nonzero reverb tail well after the impulse")
	}
}

func TestMockReverbIsNotAnInstrument(t *testing.T) {
	p, _ := Load("mock.reverb", 0, 48000)
	if p.IsInstrument() {
		t.Error("mock.reverb should not be an instrument")
	}
}
