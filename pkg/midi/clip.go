package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Channel-voice status nibbles, per the MIDI spec.
const (
	StatusNoteOff       byte = 0x80
	StatusNoteOn        byte = 0x90
	StatusControlChange byte = 0xB0
)

// ClipEvent is a single timestamped MIDI event as stored inside a loaded
// Clip. Unlike the dispatch-time Event hierarchy in events.go (NoteOnEvent,
// ControlChangeEvent, ...), ClipEvent is the flat on-disk/in-memory shape a
// clip's event list is kept in: sortable by TimeSec, trivially
// serializable, and cheap to window per block.
type ClipEvent struct {
	TimeSec  float64
	Status   byte // high nibble carries the message type
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// IsNoteOn reports whether e is a sounding note-on. A note-on with velocity
// 0 is, per the MIDI spec and this engine's running-status convention,
// treated as a note-off rather than a zero-velocity note-on.
func (e ClipEvent) IsNoteOn() bool {
	return e.Status&0xF0 == StatusNoteOn && e.Velocity > 0
}

// IsNoteOff reports whether e terminates a note: an explicit note-off, or a
// note-on with velocity 0.
func (e ClipEvent) IsNoteOff() bool {
	return e.Status&0xF0 == StatusNoteOff ||
		(e.Status&0xF0 == StatusNoteOn && e.Velocity == 0)
}

// SortEvents sorts events by TimeSec ascending, keeping the original file
// order for ties (sort.SliceStable).
func SortEvents(events []ClipEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimeSec < events[j].TimeSec
	})
}

// LoadSMF reads a standard MIDI file and returns its channel-voice events
// (note-on, note-off, control-change) flattened across all tracks and
// converted to absolute seconds, sorted ascending with file order as the
// tie-break.
//
// Tempo handling matches the single-evolving-tempo model of the original
// engine: one "current" tempo is updated by Set Tempo meta events and
// applied to every tick seen so far at that flat rate, rather than a fully
// precomputed tempo map. Per-clip tempo automation is out of scope, so this
// simplification does not lose any behavior this engine exposes.
func LoadSMF(path string) ([]ClipEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}

	smfData, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse midi file: %w", err)
	}

	ppq := 480
	if mt, ok := smfData.TimeFormat.(smf.MetricTicks); ok {
		ppq = int(mt)
	}

	type tick struct {
		absTick int64
		msg     smf.Message
	}
	var timeline []tick
	for _, track := range smfData.Tracks {
		var absTick int64
		for _, ev := range track {
			absTick += int64(ev.Delta)
			timeline = append(timeline, tick{absTick: absTick, msg: ev.Message})
		}
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].absTick < timeline[j].absTick
	})

	var (
		events        []ClipEvent
		microsPerBeat = 500000.0 // 120 BPM default
		lastTick      int64
		elapsedSec    float64
	)

	advance := func(toTick int64) {
		if toTick <= lastTick {
			return
		}
		deltaTicks := float64(toTick - lastTick)
		elapsedSec += deltaTicks / float64(ppq) * microsPerBeat / 1e6
		lastTick = toTick
	}

	for _, tm := range timeline {
		advance(tm.absTick)

		var bpm float64
		if tm.msg.GetMetaTempo(&bpm) && bpm > 0 {
			microsPerBeat = 60000000.0 / bpm
			continue
		}

		var ch, key, vel uint8
		switch {
		case tm.msg.GetNoteOn(&ch, &key, &vel):
			events = append(events, ClipEvent{
				TimeSec: elapsedSec, Status: StatusNoteOn | (ch & 0x0F), Channel: ch, Note: key, Velocity: vel,
			})
		case tm.msg.GetNoteOff(&ch, &key, &vel):
			events = append(events, ClipEvent{
				TimeSec: elapsedSec, Status: StatusNoteOff | (ch & 0x0F), Channel: ch, Note: key, Velocity: vel,
			})
		default:
			var cc, val uint8
			if tm.msg.GetControlChange(&ch, &cc, &val) {
				events = append(events, ClipEvent{
					TimeSec: elapsedSec, Status: StatusControlChange | (ch & 0x0F), Channel: ch, Note: cc, Velocity: val,
				})
			}
		}
	}

	SortEvents(events)
	return events, nil
}
