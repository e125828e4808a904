package pluginhost

import (
	"github.com/klknn/hibiki/pkg/dsp/filter"
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/plugin"
	"github.com/klknn/hibiki/pkg/framework/process"
)

// Filter parameter IDs.
const (
	filterParamCutoff uint32 = iota
	filterParamResonance
)

// mockFilter is a stereo lowpass biquad, grounded on the filter example but
// built on the simpler Biquad rather than MultiModeSVF since this host only
// needs one filter shape.
type mockFilter struct {
	*plugin.Base

	biquad     *filter.Biquad
	sampleRate float64
	cutoff, q  float64
}

func newMockFilter(sampleRate float64) *mockFilter {
	f := &mockFilter{
		Base: plugin.NewBase(plugin.Info{
			ID:       "mock.filter",
			Name:     "Mock Filter",
			Version:  "1.0.0",
			Vendor:   "Hibiki",
			Category: "Fx",
		}),
		biquad:     filter.NewBiquad(2),
		sampleRate: sampleRate,
		cutoff:     800,
		q:          0.707,
	}
	f.Parameters().Add(
		param.New(filterParamCutoff, "Cutoff").Range(80, 8000).Default(f.cutoff).Unit("Hz").Build(),
		param.New(filterParamResonance, "Resonance").Range(0.5, 10).Default(f.q).Build(),
	)
	f.biquad.SetLowpass(sampleRate, f.cutoff, f.q)
	return f
}

func (f *mockFilter) IsInstrument() bool  { return false }
func (f *mockFilter) DisplayName() string { return f.Info.Name }
func (f *mockFilter) Editor() Editor      { return nil }
func (f *mockFilter) Deactivate() error {
	f.biquad.Reset()
	return nil
}

func (f *mockFilter) Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent) {
	cutoff := ctx.ParamPlain(filterParamCutoff)
	q := ctx.ParamPlain(filterParamResonance)
	if cutoff != f.cutoff || q != f.q {
		f.cutoff, f.q = cutoff, q
		f.biquad.SetLowpass(f.sampleRate, cutoff, q)
	}

	numChannels := ctx.NumInputChannels()
	if ctx.NumOutputChannels() < numChannels {
		numChannels = ctx.NumOutputChannels()
	}
	for ch := 0; ch < numChannels; ch++ {
		copy(ctx.Output[ch], ctx.Input[ch])
	}
	f.biquad.ProcessMulti(ctx.Output[:numChannels])
}
