package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Test_SortEvents_Ascending checks two guarantees LoadSMF and
// Track.renderMidi both depend on: SortEvents keeps the number of events,
// and its output is non-decreasing by TimeSec regardless of input order.
// Tie order is checked by TestSortEventsStableTieBreak.
func Test_SortEvents_Ascending(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 64).Draw(t, "n")
		events := make([]ClipEvent, n)
		for i := range events {
			events[i] = ClipEvent{
				TimeSec:  rapid.Float64Range(0, 120).Draw(t, "timeSec"),
				Status:   StatusNoteOn,
				Channel:  uint8(rapid.IntRange(0, 15).Draw(t, "channel")),
				Note:     uint8(rapid.IntRange(0, 127).Draw(t, "note")),
				Velocity: uint8(rapid.IntRange(0, 127).Draw(t, "velocity")),
			}
		}

		SortEvents(events)

		assert.Len(t, events, n)
		for i := 1; i < len(events); i++ {
			assert.LessOrEqualf(t, events[i-1].TimeSec, events[i].TimeSec,
				"events not ascending at index %d: %+v", i, events)
		}
	})
}

// Test_Window_StrictlyLessThanBlockEnd mirrors the windowing rule
// Track.renderMidi applies to a sorted event list: events with
// TimeSec >= blockEnd must never fall inside a [cursorSec, blockEnd) window,
// and every event actually inside the window satisfies cursorSec <= TimeSec
// < blockEnd.
func Test_Window_StrictlyLessThanBlockEnd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 32).Draw(t, "n")
		events := make([]ClipEvent, n)
		for i := range events {
			events[i] = ClipEvent{TimeSec: rapid.Float64Range(0, 10).Draw(t, "timeSec")}
		}
		SortEvents(events)

		cursorSec := rapid.Float64Range(0, 10).Draw(t, "cursorSec")
		blockLen := rapid.Float64Range(0, 2).Draw(t, "blockLen")
		blockEnd := cursorSec + blockLen

		idx := 0
		var windowed []ClipEvent
		for idx < len(events) && events[idx].TimeSec < blockEnd {
			if events[idx].TimeSec >= cursorSec {
				windowed = append(windowed, events[idx])
			}
			idx++
		}

		for _, e := range windowed {
			assert.GreaterOrEqual(t, e.TimeSec, cursorSec)
			assert.Less(t, e.TimeSec, blockEnd)
		}
		for _, e := range events[idx:] {
			assert.GreaterOrEqualf(t, e.TimeSec, blockEnd,
				"event left un-windowed despite being before blockEnd: %+v", e)
		}
	})
}
