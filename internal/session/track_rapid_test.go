package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// chainOpKind enumerates the operations the property test drives against a
// single Track: loading an instrument, loading an effect, and attaching an
// AUDIO clip to a slot (injected directly, mirroring how the rest of this
// package's tests avoid round-tripping through the filesystem for a plain
// AudioClip value).
type chainOpKind int

const (
	opLoadInstrument chainOpKind = iota
	opLoadEffect
	opAttachAudioClip
)

// checkChainInvariant asserts the two exclusivity rules Track.LoadPlugin and
// Track.LoadClip both enforce: never more than one instrument in the chain,
// and never an instrument coexisting with an AUDIO clip on the same track.
func checkChainInvariant(t *rapid.T, tr *Track) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	instruments := 0
	for _, e := range tr.chain {
		if e.plugin.IsInstrument() {
			instruments++
		}
	}
	assert.LessOrEqualf(t, instruments, 1, "chain has %d instruments, want at most 1", instruments)

	hasAudioClip := false
	for _, c := range tr.clips {
		if c.Type() == TypeAudio {
			hasAudioClip = true
			break
		}
	}
	if instruments > 0 {
		assert.Falsef(t, hasAudioClip, "track has an instrument and an AUDIO clip at the same time")
	}
}

// Test_Track_InstrumentAudioClipExclusivity drives random sequences of
// plugin loads and audio-clip attachments against one Track and checks the
// exclusivity invariant after every step, not just at the end: LoadPlugin
// and the audio-attach path each remove the other side eagerly, so the
// invariant must hold continuously, not just converge eventually.
func Test_Track_InstrumentAudioClipExclusivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := NewTrack(0, 48000)
		steps := rapid.IntRange(0, 20).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			op := rapid.SampledFrom([]chainOpKind{opLoadInstrument, opLoadEffect, opAttachAudioClip}).Draw(t, "op")
			slot := int32(rapid.IntRange(0, 3).Draw(t, "slot"))

			switch op {
			case opLoadInstrument:
				if _, err := tr.LoadPlugin("mock.synth", 0); err != nil {
					t.Fatal(err)
				}
			case opLoadEffect:
				path := rapid.SampledFrom([]string{"mock.gain", "mock.filter", "mock.compressor"}).Draw(t, "effectPath")
				if _, err := tr.LoadPlugin(path, 0); err != nil {
					t.Fatal(err)
				}
			case opAttachAudioClip:
				tr.mu.Lock()
				tr.clips[slot] = &AudioClip{Channels: 2, Duration: 1}
				for i := len(tr.chain) - 1; i >= 0; i-- {
					if tr.chain[i].plugin.IsInstrument() {
						tr.chain[i].plugin.Deactivate()
						tr.chain = append(tr.chain[:i], tr.chain[i+1:]...)
					}
				}
				tr.mu.Unlock()
			}

			checkChainInvariant(t, tr)
		}
	})
}
