package pluginhost

import (
	"github.com/klknn/hibiki/pkg/dsp/envelope"
	"github.com/klknn/hibiki/pkg/dsp/oscillator"
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/plugin"
	"github.com/klknn/hibiki/pkg/framework/process"
	"github.com/klknn/hibiki/pkg/framework/voice"
	"github.com/klknn/hibiki/pkg/midi"
)

// Synth parameter IDs.
const (
	synthParamAttack uint32 = iota
	synthParamDecay
	synthParamSustain
	synthParamRelease
	synthParamVolume
)

const synthVoiceCount = 16

// synthVoice is a single sine-oscillator voice with an ADSR amplitude
// envelope, implementing voice.Voice.
type synthVoice struct {
	osc    *oscillator.Oscillator
	ampEnv *envelope.ADSR

	note      uint8
	velocity  uint8
	amplitude float64
	active    bool
	age       int64
}

func newSynthVoice(sampleRate float64) *synthVoice {
	return &synthVoice{
		osc:    oscillator.New(sampleRate),
		ampEnv: envelope.New(sampleRate),
	}
}

func (v *synthVoice) IsActive() bool       { return v.active }
func (v *synthVoice) GetNote() uint8       { return v.note }
func (v *synthVoice) GetVelocity() uint8   { return v.velocity }
func (v *synthVoice) GetAmplitude() float64 { return v.amplitude }
func (v *synthVoice) GetAge() int64        { return v.age }

func (v *synthVoice) TriggerNote(note uint8, velocity uint8) {
	v.note = note
	v.velocity = velocity
	v.amplitude = float64(velocity) / 127.0
	v.active = true
	v.age = 0
	v.osc.SetFrequency(midi.NoteToFrequency(note, 440.0))
	v.ampEnv.Trigger()
}

func (v *synthVoice) ReleaseNote() { v.ampEnv.Release() }

func (v *synthVoice) Stop() {
	v.active = false
	v.ampEnv.Reset()
	v.osc.Reset()
	v.note = 0
	v.age = 0
}

func (v *synthVoice) Process(output []float32) {
	if !v.active {
		for i := range output {
			output[i] = 0
		}
		return
	}
	for i := range output {
		sample := v.osc.Sine() * float32(v.amplitude) * v.ampEnv.Next()
		output[i] = sample
		v.age++
		if v.ampEnv.GetStage() == envelope.StageIdle {
			v.active = false
		}
	}
}

func (v *synthVoice) setADSR(attack, decay, sustain, release float64) {
	v.ampEnv.SetADSR(attack, decay, sustain, release)
}

// mockSynth is the catalog's sole instrument: a 16-voice polyphonic
// subtractive-free sine synth, adapted from the simplesynth example's
// voice/processor split into a single pluginhost.Plugin.
type mockSynth struct {
	*plugin.Base

	voices     []voice.Voice
	voiceAlloc *voice.Allocator
	sampleRate float64

	attack, decay, sustain, release, volume float64

	voiceBuffer []float32
}

func newMockSynth(sampleRate float64) *mockSynth {
	s := &mockSynth{
		Base: plugin.NewBase(plugin.Info{
			ID:       "mock.synth",
			Name:     "Mock Synth",
			Version:  "1.0.0",
			Vendor:   "Hibiki",
			Category: "Instrument",
		}),
		sampleRate:  sampleRate,
		attack:      0.01,
		decay:       0.1,
		sustain:     0.7,
		release:     0.3,
		volume:      0.8,
		voiceBuffer: make([]float32, 8192),
	}

	s.Parameters().Add(
		param.New(synthParamAttack, "Attack").Range(0.001, 2.0).Default(s.attack).Unit("s").Build(),
		param.New(synthParamDecay, "Decay").Range(0.001, 2.0).Default(s.decay).Unit("s").Build(),
		param.New(synthParamSustain, "Sustain").Range(0.0, 1.0).Default(s.sustain).Unit("%").Build(),
		param.New(synthParamRelease, "Release").Range(0.001, 5.0).Default(s.release).Unit("s").Build(),
		param.New(synthParamVolume, "Volume").Range(0.0, 1.0).Default(s.volume).Unit("%").Build(),
	)

	s.voices = make([]voice.Voice, synthVoiceCount)
	for i := range s.voices {
		s.voices[i] = newSynthVoice(sampleRate)
	}
	s.voiceAlloc = voice.NewAllocator(s.voices)
	s.voiceAlloc.SetMode(voice.ModePoly)
	s.voiceAlloc.SetStealingMode(voice.StealOldest)

	return s
}

func (s *mockSynth) IsInstrument() bool  { return true }
func (s *mockSynth) DisplayName() string { return s.Info.Name }
func (s *mockSynth) Editor() Editor      { return nil }
func (s *mockSynth) Deactivate() error {
	s.voiceAlloc.Reset()
	return nil
}

func (s *mockSynth) updateFromParams() {
	p := s.Parameters()
	attack := p.Get(synthParamAttack).GetPlainValue()
	decay := p.Get(synthParamDecay).GetPlainValue()
	sustain := p.Get(synthParamSustain).GetPlainValue()
	release := p.Get(synthParamRelease).GetPlainValue()
	if attack != s.attack || decay != s.decay || sustain != s.sustain || release != s.release {
		s.attack, s.decay, s.sustain, s.release = attack, decay, sustain, release
		for _, v := range s.voices {
			v.(*synthVoice).setADSR(attack, decay, sustain, release)
		}
	}
	s.volume = p.Get(synthParamVolume).GetPlainValue()
}

func (s *mockSynth) Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent) {
	s.updateFromParams()
	ctx.Clear()

	for _, e := range events {
		if e.IsNoteOn {
			s.voiceAlloc.NoteOn(e.Pitch, uint8(e.Velocity*127))
		} else {
			s.voiceAlloc.NoteOff(e.Pitch, 0)
		}
	}

	numSamples := ctx.NumSamples()
	if numSamples == 0 || len(ctx.Output) < 2 {
		return
	}
	voiceBuffer := s.voiceBuffer[:numSamples]

	for _, v := range s.voices {
		if !v.IsActive() {
			continue
		}
		v.Process(voiceBuffer)
		for i := 0; i < numSamples; i++ {
			sample := voiceBuffer[i] * float32(s.volume)
			ctx.Output[0][i] += sample
			ctx.Output[1][i] += sample
		}
	}
}
