package pluginhost

import (
	"github.com/klknn/hibiki/pkg/dsp/dynamics"
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/plugin"
	"github.com/klknn/hibiki/pkg/framework/process"
)

// Compressor parameter IDs.
const (
	compParamThreshold uint32 = iota
	compParamRatio
	compParamAttack
	compParamRelease
	compParamMakeup
)

// mockCompressor is a linked-stereo feed-forward compressor built directly
// on dsp/dynamics.Compressor.
type mockCompressor struct {
	*plugin.Base

	comp                                     *dynamics.Compressor
	threshold, ratio, attack, release, makeup float64
}

func newMockCompressor(sampleRate float64) *mockCompressor {
	c := &mockCompressor{
		Base: plugin.NewBase(plugin.Info{
			ID:       "mock.compressor",
			Name:     "Mock Compressor",
			Version:  "1.0.0",
			Vendor:   "Hibiki",
			Category: "Fx",
		}),
		comp:      dynamics.NewCompressor(sampleRate),
		threshold: -20.0,
		ratio:     4.0,
		attack:    0.005,
		release:   0.050,
		makeup:    0.0,
	}
	c.Parameters().Add(
		param.New(compParamThreshold, "Threshold").Range(-60, 0).Default(c.threshold).Unit("dB").Build(),
		param.New(compParamRatio, "Ratio").Range(1, 20).Default(c.ratio).Build(),
		param.New(compParamAttack, "Attack").Range(0.0001, 0.1).Default(c.attack).Unit("s").Build(),
		param.New(compParamRelease, "Release").Range(0.001, 1.0).Default(c.release).Unit("s").Build(),
		param.New(compParamMakeup, "Makeup").Range(0, 24).Default(c.makeup).Unit("dB").Build(),
	)
	return c
}

func (c *mockCompressor) IsInstrument() bool  { return false }
func (c *mockCompressor) DisplayName() string { return c.Info.Name }
func (c *mockCompressor) Editor() Editor      { return nil }
func (c *mockCompressor) Deactivate() error {
	c.comp.Reset()
	return nil
}

func (c *mockCompressor) updateFromParams(ctx *process.Context) {
	threshold := ctx.ParamPlain(compParamThreshold)
	ratio := ctx.ParamPlain(compParamRatio)
	attack := ctx.ParamPlain(compParamAttack)
	release := ctx.ParamPlain(compParamRelease)
	makeup := ctx.ParamPlain(compParamMakeup)

	if threshold != c.threshold {
		c.threshold = threshold
		c.comp.SetThreshold(threshold)
	}
	if ratio != c.ratio {
		c.ratio = ratio
		c.comp.SetRatio(ratio)
	}
	if attack != c.attack {
		c.attack = attack
		c.comp.SetAttack(attack)
	}
	if release != c.release {
		c.release = release
		c.comp.SetRelease(release)
	}
	if makeup != c.makeup {
		c.makeup = makeup
		c.comp.SetMakeupGain(makeup)
	}
}

func (c *mockCompressor) Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent) {
	c.updateFromParams(ctx)

	if ctx.NumInputChannels() >= 2 && ctx.NumOutputChannels() >= 2 {
		c.comp.ProcessStereo(ctx.Input[0], ctx.Input[1], ctx.Output[0], ctx.Output[1])
		return
	}
	if ctx.NumInputChannels() >= 1 && ctx.NumOutputChannels() >= 1 {
		c.comp.ProcessBuffer(ctx.Input[0], ctx.Output[0])
	}
}
