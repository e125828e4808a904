package pluginhost

import (
	"github.com/klknn/hibiki/pkg/dsp/delay"
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/plugin"
	"github.com/klknn/hibiki/pkg/framework/process"
)

// Delay parameter IDs.
const (
	delayParamTimeMs uint32 = iota
	delayParamFeedback
	delayParamMix
)

// maxDelaySeconds bounds mockDelay's line length; 2s covers every delayTimeMs
// the parameter range below allows.
const maxDelaySeconds = 2.0

// mockDelay is a stereo feedback delay built on delay.Line, one line per
// channel. ProcessBufferMix feeds the line from its own dry input with no
// feedback path, so feedback is driven manually here via Read/Write instead.
type mockDelay struct {
	*plugin.Base

	lineL, lineR       *delay.Line
	sampleRate         float64
	delayMs, feedback, mix float64
}

func newMockDelay(sampleRate float64) *mockDelay {
	d := &mockDelay{
		Base: plugin.NewBase(plugin.Info{
			ID:       "mock.delay",
			Name:     "Mock Delay",
			Version:  "1.0.0",
			Vendor:   "Hibiki",
			Category: "Fx|Delay",
		}),
		lineL:      delay.New(maxDelaySeconds, sampleRate),
		lineR:      delay.New(maxDelaySeconds, sampleRate),
		sampleRate: sampleRate,
		delayMs:    350,
		feedback:   0.35,
		mix:        0.3,
	}
	d.Parameters().Add(
		param.New(delayParamTimeMs, "Time").Range(1, 1900).Default(d.delayMs).Unit("ms").Build(),
		param.New(delayParamFeedback, "Feedback").Range(0, 0.95).Default(d.feedback).Build(),
		param.New(delayParamMix, "Mix").Range(0, 1).Default(d.mix).Build(),
	)
	return d
}

func (d *mockDelay) IsInstrument() bool  { return false }
func (d *mockDelay) DisplayName() string { return d.Info.Name }
func (d *mockDelay) Editor() Editor      { return nil }
func (d *mockDelay) Deactivate() error {
	d.lineL.Reset()
	d.lineR.Reset()
	return nil
}

func (d *mockDelay) processLine(line *delay.Line, delaySamples float64, buf []float32) {
	for i, in := range buf {
		wet := line.Read(delaySamples)
		line.Write(in + wet*float32(d.feedback))
		buf[i] = in*float32(1-d.mix) + wet*float32(d.mix)
	}
}

func (d *mockDelay) Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent) {
	d.delayMs = ctx.ParamPlain(delayParamTimeMs)
	d.feedback = ctx.ParamPlain(delayParamFeedback)
	d.mix = ctx.ParamPlain(delayParamMix)
	delaySamples := d.delayMs * d.sampleRate / 1000.0

	numChannels := ctx.NumInputChannels()
	if ctx.NumOutputChannels() < numChannels {
		numChannels = ctx.NumOutputChannels()
	}
	for ch := 0; ch < numChannels; ch++ {
		copy(ctx.Output[ch], ctx.Input[ch])
	}

	if numChannels > 0 {
		d.processLine(d.lineL, delaySamples, ctx.Output[0])
	}
	if numChannels > 1 {
		d.processLine(d.lineR, delaySamples, ctx.Output[1])
	}
}
