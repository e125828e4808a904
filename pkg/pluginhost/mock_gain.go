package pluginhost

import (
	"github.com/klknn/hibiki/pkg/dsp/gain"
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/plugin"
	"github.com/klknn/hibiki/pkg/framework/process"
)

const gainParamGainDB uint32 = 0

// mockGain is a plain stereo gain stage, adapted from the gain example's
// processor body.
type mockGain struct {
	*plugin.Base
}

func newMockGain(sampleRate float64) *mockGain {
	g := &mockGain{
		Base: plugin.NewBase(plugin.Info{
			ID:       "mock.gain",
			Name:     "Mock Gain",
			Version:  "1.0.0",
			Vendor:   "Hibiki",
			Category: "Fx",
		}),
	}
	g.Parameters().Add(
		param.New(gainParamGainDB, "Gain").Range(-24, 24).Default(0).Unit("dB").Build(),
	)
	return g
}

func (g *mockGain) IsInstrument() bool  { return false }
func (g *mockGain) DisplayName() string { return g.Info.Name }
func (g *mockGain) Editor() Editor      { return nil }
func (g *mockGain) Deactivate() error   { return nil }

func (g *mockGain) Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent) {
	gainDB := ctx.ParamPlain(gainParamGainDB)
	linear := gain.DbToLinear32(float32(gainDB))

	numChannels := ctx.NumInputChannels()
	if ctx.NumOutputChannels() < numChannels {
		numChannels = ctx.NumOutputChannels()
	}
	for ch := 0; ch < numChannels; ch++ {
		gain.ApplyBufferTo(ctx.Input[ch], linear, ctx.Output[ch])
	}
}
