// Package session implements the engine's in-memory project model: tracks,
// their plugin chains, and their slot-indexed clips. This is the state the
// Scheduler renders from each block and the Command Router mutates under
// lock; nothing here touches the wire protocol or the audio device.
package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klknn/hibiki/pkg/midi"
	"github.com/klknn/hibiki/pkg/wav"
)

// Type distinguishes the two Clip payload shapes a slot can hold.
type Type int

const (
	TypeMidi Type = iota
	TypeAudio
)

func (t Type) String() string {
	if t == TypeAudio {
		return "AUDIO"
	}
	return "MIDI"
}

// trailingSilenceMargin is added past a MIDI clip's last event so loop wrap
// does not drop it: without it, a clip that loops back to t=0 exactly when
// its last note fires would cut that note off mid-render.
const trailingSilenceMargin = 0.1

// Clip is an immutable-after-load media payload bound to a track slot: a
// MidiClip or an AudioClip. is_loop is the one mutable field, toggled by
// SetClipLoop without reloading the underlying media.
type Clip interface {
	Type() Type
	SourcePath() string
	IsLoop() bool
	SetLoop(bool)
	DurationSec() float64
}

// MidiClip holds a flattened, time-sorted MIDI event list.
type MidiClip struct {
	Path     string
	Loop     bool
	Events   []midi.ClipEvent
	Duration float64
}

func (c *MidiClip) Type() Type          { return TypeMidi }
func (c *MidiClip) SourcePath() string  { return c.Path }
func (c *MidiClip) IsLoop() bool        { return c.Loop }
func (c *MidiClip) SetLoop(loop bool)   { c.Loop = loop }
func (c *MidiClip) DurationSec() float64 { return c.Duration }

// AudioClip holds decoded PCM samples plus their 256-bucket peak envelope.
type AudioClip struct {
	Path            string
	Loop            bool
	Samples         []float32 // interleaved, Channels per frame
	Channels        int
	SampleRate      int
	Duration        float64
	WaveformSummary [256]float32
}

func (c *AudioClip) Type() Type           { return TypeAudio }
func (c *AudioClip) SourcePath() string   { return c.Path }
func (c *AudioClip) IsLoop() bool         { return c.Loop }
func (c *AudioClip) SetLoop(loop bool)    { c.Loop = loop }
func (c *AudioClip) DurationSec() float64 { return c.Duration }

// LoadClip decides MIDI vs AUDIO by extension (".wav" is audio, everything
// else is treated as a standard MIDI file) and loads accordingly. An AUDIO
// load that isn't 16-bit PCM, or a MIDI load with zero events, fails.
func LoadClip(path string, isLoop bool) (Clip, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		f, err := wav.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load audio clip: %w", err)
		}
		return &AudioClip{
			Path:            path,
			Loop:            isLoop,
			Samples:         f.Samples,
			Channels:        f.Channels,
			SampleRate:      f.SampleRate,
			Duration:        f.Duration,
			WaveformSummary: f.WaveformSummary(),
		}, nil
	}

	events, err := midi.LoadSMF(path)
	if err != nil {
		return nil, fmt.Errorf("load midi clip: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("load midi clip: %s has no events", path)
	}

	var lastTime float64
	for _, e := range events {
		if e.TimeSec > lastTime {
			lastTime = e.TimeSec
		}
	}

	return &MidiClip{
		Path:     path,
		Loop:     isLoop,
		Events:   events,
		Duration: lastTime + trailingSilenceMargin,
	}, nil
}
