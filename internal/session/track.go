package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/klknn/hibiki/pkg/dsp/analysis"
	"github.com/klknn/hibiki/pkg/dsp/interpolation"
	"github.com/klknn/hibiki/pkg/framework/process"
	"github.com/klknn/hibiki/pkg/pluginhost"
)

// NoSlot marks a track with no clip currently playing.
const NoSlot int32 = -1

// BlockSize is the scheduler's fixed render quantum, matching the
// max_block every Plugin is activated with.
const BlockSize = 512

// LoadPluginResult reports what Track.LoadPlugin changed, so the Command
// Router can emit the matching notifications without re-deriving them.
type LoadPluginResult struct {
	Position          int
	RemovedAudioSlots []int32
}

// LoadClipResult reports what Track.LoadClip changed.
type LoadClipResult struct {
	ClipType                   Type
	WaveformSummary            *[256]float32
	RemovedInstrumentPositions []int
}

// chainEntry pairs a loaded plugin with the process.Context it is always
// called through. The Context carries that plugin's own parameter registry
// and a pre-sized scratch buffer, so the chain never reallocates a Context
// mid-block.
type chainEntry struct {
	plugin   pluginhost.Plugin
	ctx      *process.Context
	path     string
	subindex int32
}

func newChainEntry(p pluginhost.Plugin, path string, subindex int32) chainEntry {
	return chainEntry{
		plugin:   p,
		ctx:      process.NewContext(BlockSize, p.Parameters()),
		path:     path,
		subindex: subindex,
	}
}

// Track is an ordered plugin chain plus a slot-indexed clip library and a
// playback cursor, all serialized on a single lock. Every exported method
// acquires that lock for its own duration; none hold it across calls.
type Track struct {
	Index int32

	mu            sync.Mutex
	chain         []chainEntry
	clips         map[int32]Clip
	playingSlot   int32
	cursorSec     float64
	midiCursorIdx int
	sampleRate    float64

	peakMeterL, peakMeterR *analysis.PeakMeter
	peakScratch            []float64
}

// NewTrack constructs an empty track latched to sampleRate, which every
// plugin this track loads is activated against.
func NewTrack(index int32, sampleRate float64) *Track {
	return &Track{
		Index:       index,
		clips:       make(map[int32]Clip),
		playingSlot: NoSlot,
		sampleRate:  sampleRate,
		peakMeterL:  analysis.NewPeakMeter(sampleRate),
		peakMeterR:  analysis.NewPeakMeter(sampleRate),
		peakScratch: make([]float64, BlockSize),
	}
}

// instrumentPos returns the index of the chain's instrument, or -1.
// Callers must hold t.mu.
func (t *Track) instrumentPos() int {
	for i, e := range t.chain {
		if e.plugin.IsInstrument() {
			return i
		}
	}
	return -1
}

// LoadPlugin constructs a Plugin via pluginhost.Load and places it according
// to the instrument/effect chain policy: a new instrument replaces any
// existing instrument in place (position 0); otherwise it's prepended if the
// chain has none, or appended if it's an effect. Loading an instrument
// deletes every AUDIO clip on the track (audio clips and instruments are
// mutually exclusive).
func (t *Track) LoadPlugin(path string, subindex int32) (LoadPluginResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := pluginhost.Load(path, subindex, t.sampleRate)
	if err != nil {
		return LoadPluginResult{}, err
	}
	entry := newChainEntry(p, path, subindex)

	pos := t.instrumentPos()
	var result LoadPluginResult

	switch {
	case p.IsInstrument() && pos >= 0:
		t.chain[pos].plugin.Deactivate()
		t.chain[pos] = entry
		result.Position = pos
	case p.IsInstrument():
		t.chain = append([]chainEntry{entry}, t.chain...)
		result.Position = 0
	default:
		t.chain = append(t.chain, entry)
		result.Position = len(t.chain) - 1
	}

	if p.IsInstrument() {
		for slot, c := range t.clips {
			if c.Type() == TypeAudio {
				delete(t.clips, slot)
				result.RemovedAudioSlots = append(result.RemovedAudioSlots, slot)
			}
		}
	}

	if len(t.chain) == 1 {
		t.cursorSec = 0
		t.midiCursorIdx = 0
	}

	return result, nil
}

// RemovePlugin deactivates and removes the plugin at position, reporting
// whether position was valid.
func (t *Track) RemovePlugin(position int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if position < 0 || position >= len(t.chain) {
		return false
	}
	t.chain[position].plugin.Deactivate()
	t.chain = append(t.chain[:position], t.chain[position+1:]...)
	return true
}

// LoadClip loads the media at path into slot, enforcing audio/instrument
// exclusivity: a successful AUDIO load removes every instrument from the
// chain. If slot was the currently playing slot, the cursor is reset.
func (t *Track) LoadClip(slot int32, path string, isLoop bool) (LoadClipResult, error) {
	clip, err := LoadClip(path, isLoop)
	if err != nil {
		return LoadClipResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.clips[slot] = clip
	result := LoadClipResult{ClipType: clip.Type()}

	if audio, ok := clip.(*AudioClip); ok {
		summary := audio.WaveformSummary
		result.WaveformSummary = &summary

		for i := len(t.chain) - 1; i >= 0; i-- {
			if t.chain[i].plugin.IsInstrument() {
				t.chain[i].plugin.Deactivate()
				t.chain = append(t.chain[:i], t.chain[i+1:]...)
				result.RemovedInstrumentPositions = append(result.RemovedInstrumentPositions, i)
			}
		}
	}

	if slot == t.playingSlot {
		t.cursorSec = 0
		t.midiCursorIdx = 0
	}

	return result, nil
}

// SetClipLoop toggles is_loop on the clip at slot, reporting whether slot
// was known.
func (t *Track) SetClipLoop(slot int32, isLoop bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.clips[slot]
	if !ok {
		return false
	}
	c.SetLoop(isLoop)
	return true
}

// DeleteClip removes the clip at slot, clearing playing_slot if it matched.
func (t *Track) DeleteClip(slot int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.clips[slot]; !ok {
		return false
	}
	delete(t.clips, slot)
	if t.playingSlot == slot {
		t.playingSlot = NoSlot
	}
	return true
}

// PlayClip sets playing_slot and resets both cursors. A no-op if slot is
// unknown.
func (t *Track) PlayClip(slot int32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.clips[slot]; !ok {
		return
	}
	t.playingSlot = slot
	t.cursorSec = 0
	t.midiCursorIdx = 0
}

// Stop clears playing_slot.
func (t *Track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playingSlot = NoSlot
}

// ParamListEntry describes one parameter for the ParamList notification.
type ParamListEntry struct {
	ID      uint32
	Name    string
	Default float64
}

// PluginSnapshot is a read-only view of one chain entry, for building
// ParamList notifications.
type PluginSnapshot struct {
	Position     int
	Name         string
	IsInstrument bool
	Params       []ParamListEntry
}

// PluginAt returns a snapshot of the plugin at position, or ok=false.
func (t *Track) PluginAt(position int) (PluginSnapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if position < 0 || position >= len(t.chain) {
		return PluginSnapshot{}, false
	}
	return t.snapshotLocked(position), true
}

func (t *Track) snapshotLocked(position int) PluginSnapshot {
	p := t.chain[position].plugin
	all := p.Parameters().All()
	params := make([]ParamListEntry, len(all))
	for i, pr := range all {
		params[i] = ParamListEntry{ID: pr.ID, Name: pr.Name, Default: pr.DefaultValue}
	}
	return PluginSnapshot{
		Position:     position,
		Name:         p.DisplayName(),
		IsInstrument: p.IsInstrument(),
		Params:       params,
	}
}

// SetParamValue sets a normalized parameter value on the plugin at position.
func (t *Track) SetParamValue(position int, id uint32, value float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if position < 0 || position >= len(t.chain) {
		return fmt.Errorf("session: no plugin at position %d", position)
	}
	param := t.chain[position].plugin.Parameters().Get(id)
	if param == nil {
		return fmt.Errorf("session: no parameter %d on plugin at position %d", id, position)
	}
	param.SetValue(value)
	return nil
}

// ClipAt returns the clip at slot, or ok=false.
func (t *Track) ClipAt(slot int32) (Clip, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.clips[slot]
	return c, ok
}

// ParamValue is one parameter's current normalized value, for persistence.
type ParamValue struct {
	ID    uint32
	Value float64
}

// ChainRecord is a persistable view of one chain entry: enough to reload it
// via LoadPlugin plus SetParamValue.
type ChainRecord struct {
	Path     string
	Subindex int32
	Params   []ParamValue
}

// ChainSnapshot returns a persistable record of every plugin in the chain,
// in chain order (instrument first, if any).
func (t *Track) ChainSnapshot() []ChainRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ChainRecord, len(t.chain))
	for i, e := range t.chain {
		all := e.plugin.Parameters().All()
		params := make([]ParamValue, len(all))
		for j, p := range all {
			params[j] = ParamValue{ID: p.ID, Value: p.GetValue()}
		}
		out[i] = ChainRecord{Path: e.path, Subindex: e.subindex, Params: params}
	}
	return out
}

// ClipRecord is a persistable view of one clip slot.
type ClipRecord struct {
	Slot   int32
	Path   string
	IsLoop bool
	Type   Type
}

// ClipSnapshot returns a persistable record of every clip slot on the track.
func (t *Track) ClipSnapshot() []ClipRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ClipRecord, 0, len(t.clips))
	for slot, c := range t.clips {
		out = append(out, ClipRecord{Slot: slot, Path: c.SourcePath(), IsLoop: c.IsLoop(), Type: c.Type()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Shutdown deactivates every plugin on the track. Called during track/
// session teardown, never from the audio thread.
func (t *Track) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.chain {
		e.plugin.Deactivate()
	}
	t.chain = nil
}

// RenderBlock advances this track by one scheduler block, mixing into the
// caller-provided per-track scratch buffers (len must equal BlockSize) and
// reporting the peak absolute sample seen on each channel. It is a no-op
// (played=false) when nothing is playing.
//
// This method owns the track lock for its entire body, matching the "per-
// Track lock for the duration of one track's render" rule: the Scheduler
// never reaches back into Track state mid-render.
func (t *Track) RenderBlock(tempoBPM float64, bufL, bufR []float32) (played bool, peakL, peakR float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.playingSlot == NoSlot {
		return false, 0, 0
	}
	clip, ok := t.clips[t.playingSlot]
	if !ok {
		t.playingSlot = NoSlot
		return false, 0, 0
	}

	blockSize := len(bufL)
	timePerBlock := float64(blockSize) / t.sampleRate

	hostCtx := process.HostContext{
		SampleRate:            t.sampleRate,
		Tempo:                 tempoBPM,
		ContinuousTimeSamples: int64(roundHalfUp(t.cursorSec * t.sampleRate)),
		ProjectTimeMusic:      t.cursorSec * tempoBPM / 60.0,
	}

	switch c := clip.(type) {
	case *MidiClip:
		t.renderMidi(c, hostCtx, timePerBlock, bufL, bufR)
	case *AudioClip:
		t.renderAudio(c, bufL, bufR)
	}

	peakL = t.blockPeak(t.peakMeterL, bufL)
	peakR = t.blockPeak(t.peakMeterR, bufR)

	t.cursorSec += timePerBlock
	duration := clip.DurationSec()
	if t.cursorSec >= duration {
		if clip.IsLoop() {
			if duration > 0 {
				t.cursorSec = mod(t.cursorSec, duration)
			} else {
				t.cursorSec = 0
			}
			t.midiCursorIdx = 0
		} else {
			t.playingSlot = NoSlot
		}
	}

	return true, peakL, peakR
}

// blockPeak reports max(|buf|) for this block alone, via analysis.PeakMeter:
// Reset clears the meter's decay/hold state, so the single Process call that
// follows has nothing to decay from and GetPeak is exactly this block's max,
// matching spec's plain per-block peak rather than the meter's normal
// hold/decay behavior.
func (t *Track) blockPeak(meter *analysis.PeakMeter, buf []float32) float32 {
	for i, v := range buf {
		t.peakScratch[i] = float64(v)
	}
	meter.Reset()
	meter.Process(t.peakScratch[:len(buf)])
	return float32(meter.GetPeak())
}

// renderMidi windows the clip's event list to [cursorSec, cursorSec+timePerBlock),
// converts the window to process.NoteEvent and hands it to the first
// plugin's own Context with no input; later plugins in the chain receive
// the running (bufL,bufR) as both input and output and an empty event
// list, per the block's chaining rule.
func (t *Track) renderMidi(clip *MidiClip, hostCtx process.HostContext, timePerBlock float64, bufL, bufR []float32) {
	if len(t.chain) == 0 {
		return
	}

	blockEnd := t.cursorSec + timePerBlock
	var events []process.NoteEvent

	for t.midiCursorIdx < len(clip.Events) && clip.Events[t.midiCursorIdx].TimeSec < blockEnd {
		e := clip.Events[t.midiCursorIdx]
		t.midiCursorIdx++

		if !e.IsNoteOn() && !e.IsNoteOff() {
			continue
		}
		if e.TimeSec < t.cursorSec {
			continue
		}

		offset := clampInt(roundHalfUp((e.TimeSec-t.cursorSec)*t.sampleRate), 0, len(bufL)-1)
		velocity := float32(0)
		isNoteOn := e.IsNoteOn()
		if isNoteOn {
			velocity = float32(e.Velocity) / 127.0
		}
		events = append(events, process.NoteEvent{
			SampleOffset: int32(offset),
			Channel:      e.Channel,
			Pitch:        e.Note,
			Velocity:     velocity,
			IsNoteOn:     isNoteOn,
		})
	}

	out := [][]float32{bufL, bufR}

	first := t.chain[0]
	first.ctx.Input = nil
	first.ctx.Output = out
	first.ctx.SampleRate = t.sampleRate
	first.plugin.Process(first.ctx, hostCtx, events)

	for i := 1; i < len(t.chain); i++ {
		e := t.chain[i]
		e.ctx.Input = out
		e.ctx.Output = out
		e.ctx.SampleRate = t.sampleRate
		e.plugin.Process(e.ctx, hostCtx, nil)
	}
}

// renderAudio reads one block of frames starting at cursorSec from the
// decoded clip into bufL/bufR (silence past end-of-data), then passes the
// result through every effect in the chain, skipping any instrument found
// there defensively. When the clip's native rate differs from the track's,
// each output sample falls at a fractional source frame; those are linearly
// interpolated rather than rounded to the nearest frame.
func (t *Track) renderAudio(clip *AudioClip, bufL, bufR []float32) {
	numFrames := len(bufL)
	totalFrames := len(clip.Samples) / max(clip.Channels, 1)

	readChannel := func(frame, ch int) float32 {
		if frame < 0 || frame >= totalFrames {
			return 0
		}
		return clip.Samples[frame*clip.Channels+ch]
	}

	for i := 0; i < numFrames; i++ {
		if clip.Channels == 0 {
			bufL[i], bufR[i] = 0, 0
			continue
		}

		srcPos := (t.cursorSec + float64(i)/t.sampleRate) * float64(clip.SampleRate)
		frame := int(srcPos)
		frac := float32(srcPos - float64(frame))
		if frame >= totalFrames {
			bufL[i], bufR[i] = 0, 0
			continue
		}

		switch clip.Channels {
		case 1:
			v := interpolation.Linear(readChannel(frame, 0), readChannel(frame+1, 0), frac)
			bufL[i], bufR[i] = v, v
		default:
			bufL[i] = interpolation.Linear(readChannel(frame, 0), readChannel(frame+1, 0), frac)
			bufR[i] = interpolation.Linear(readChannel(frame, 1), readChannel(frame+1, 1), frac)
		}
	}

	out := [][]float32{bufL, bufR}
	hostCtx := process.HostContext{SampleRate: t.sampleRate}
	for _, e := range t.chain {
		if e.plugin.IsInstrument() {
			continue
		}
		e.ctx.Input = out
		e.ctx.Output = out
		e.ctx.SampleRate = t.sampleRate
		e.plugin.Process(e.ctx, hostCtx, nil)
	}
}

func roundHalfUp(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(v, m float64) float64 {
	r := v
	for r >= m {
		r -= m
	}
	for r < 0 {
		r += m
	}
	return r
}
