package pluginhost

import (
	"testing"

	"github.com/klknn/hibiki/pkg/framework/process"
)

func TestMockGainUnityAtZeroDB(t *testing.T) {
	p, _ := Load("mock.gain", 0, 48000)
	g := p.(*mockGain)

	in := []float32{1, 0.5, -0.5}
	ctx := process.NewContext(len(in), g.Parameters())
	ctx.Input = [][]float32{append([]float32{}, in...)}
	ctx.Output = [][]float32{make([]float32, len(in))}

	g.Process(ctx, process.HostContext{}, nil)

	for i, want := range in {
		if got := ctx.Output[0][i]; got != want {
			t.Errorf("Output[0][%d] = %v, want %v (unity gain)", i, got, want)
		}
	}
}

func TestMockGainAttenuates(t *testing.T) {
	p, _ := Load("mock.gain", 0, 48000)
	g := p.(*mockGain)
	g.Parameters().Get(gainParamGainDB).SetPlainValue(-24)

	in := []float32{1}
	ctx := process.NewContext(1, g.Parameters())
	ctx.Input = [][]float32{in}
	ctx.Output = [][]float32{make([]float32, 1)}

	g.Process(ctx, process.HostContext{}, nil)

	if ctx.Output[0][0] >= 1 {
		t.Errorf("Output[0][0] = %v, want attenuated below input", ctx.Output[0][0])
	}
}
