package pluginhost

import (
	"testing"

	"github.com/klknn/hibiki/pkg/framework/process"
)

func TestMockDelayEchoesImpulseAfterDelayTime(t *testing.T) {
	p, _ := Load("mock.delay", 0, 48000)
	d := p.(*mockDelay)
	d.Parameters().Get(delayParamTimeMs).SetPlainValue(10)
	d.Parameters().Get(delayParamFeedback).SetPlainValue(0)
	d.Parameters().Get(delayParamMix).SetPlainValue(1)

	const n = 1024
	in := make([]float32, n)
	in[0] = 1

	ctx := process.NewContext(n, d.Parameters())
	ctx.Input = [][]float32{append([]float32{}, in...), append([]float32{}, in...)}
	ctx.Output = [][]float32{make([]float32, n), make([]float32, n)}
	ctx.SampleRate = 48000

	d.Process(ctx, process.HostContext{}, nil)

	delaySamples := int(10 * 48000 / 1000.0)
	if ctx.Output[0][delaySamples] == 0 {
		t.Errorf("expected the delayed impulse near sample %d, got silence", delaySamples)
	}
	if ctx.Output[0][0] != 0 {
		t.Errorf("fully wet output should not pass the dry impulse through at sample 0, got %v", ctx.Output[0][0])
	}
}

func TestMockDelayIsNotAnInstrument(t *testing.T) {
	p, _ := Load("mock.delay", 0, 48000)
	if p.IsInstrument() {
		t.Error("mock.delay should not be an instrument")
	}
}
