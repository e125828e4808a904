package pluginhost

import (
	"github.com/klknn/hibiki/pkg/dsp/reverb"
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/plugin"
	"github.com/klknn/hibiki/pkg/framework/process"
)

// Reverb parameter IDs.
const (
	reverbParamRoomSize uint32 = iota
	reverbParamDamping
	reverbParamWet
)

// mockReverb is a stereo Freeverb, grounded directly on the teacher's
// Freeverb algorithm: it runs one reverb tank and feeds both channels'
// input/output through ProcessStereo per sample, rather than processing
// each channel independently, since the algorithm itself is inherently
// stereo (width control cross-feeds L/R).
type mockReverb struct {
	*plugin.Base

	verb         *reverb.Freeverb
	roomSize, wet, damping float64
}

func newMockReverb(sampleRate float64) *mockReverb {
	r := &mockReverb{
		Base: plugin.NewBase(plugin.Info{
			ID:       "mock.reverb",
			Name:     "Mock Reverb",
			Version:  "1.0.0",
			Vendor:   "Hibiki",
			Category: "Fx|Reverb",
		}),
		verb:     reverb.NewFreeverb(sampleRate),
		roomSize: 0.5,
		damping:  0.5,
		wet:      1.0 / 3.0,
	}
	r.Parameters().Add(
		param.New(reverbParamRoomSize, "Room Size").Range(0, 1).Default(r.roomSize).Build(),
		param.New(reverbParamDamping, "Damping").Range(0, 1).Default(r.damping).Build(),
		param.New(reverbParamWet, "Wet").Range(0, 1).Default(r.wet).Build(),
	)
	r.verb.SetRoomSize(r.roomSize)
	r.verb.SetDamping(r.damping)
	r.verb.SetWetLevel(r.wet)
	r.verb.SetDryLevel(1 - r.wet)
	return r
}

func (r *mockReverb) IsInstrument() bool  { return false }
func (r *mockReverb) DisplayName() string { return r.Info.Name }
func (r *mockReverb) Editor() Editor      { return nil }
func (r *mockReverb) Deactivate() error {
	r.verb.Reset()
	return nil
}

func (r *mockReverb) Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent) {
	roomSize := ctx.ParamPlain(reverbParamRoomSize)
	damping := ctx.ParamPlain(reverbParamDamping)
	wet := ctx.ParamPlain(reverbParamWet)
	if roomSize != r.roomSize {
		r.roomSize = roomSize
		r.verb.SetRoomSize(roomSize)
	}
	if damping != r.damping {
		r.damping = damping
		r.verb.SetDamping(damping)
	}
	if wet != r.wet {
		r.wet = wet
		r.verb.SetWetLevel(wet)
		r.verb.SetDryLevel(1 - wet)
	}

	numChannels := ctx.NumInputChannels()
	if ctx.NumOutputChannels() < numChannels {
		numChannels = ctx.NumOutputChannels()
	}
	if numChannels < 2 {
		for ch := 0; ch < numChannels; ch++ {
			in := ctx.Input[ch]
			out := ctx.Output[ch]
			for i, v := range in {
				out[i], _ = r.verb.ProcessStereo(v, v)
			}
		}
		return
	}

	inL, inR := ctx.Input[0], ctx.Input[1]
	outL, outR := ctx.Output[0], ctx.Output[1]
	for i := range inL {
		outL[i], outR[i] = r.verb.ProcessStereo(inL[i], inR[i])
	}
}
