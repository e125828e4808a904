package session

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Levels is the last-writer-wins peak snapshot for one track, published via
// the TrackLevels notification.
type Levels struct {
	PeakL float32
	PeakR float32
}

// Session owns every Track and the global transport. Session exclusively
// owns Tracks; Tracks exclusively own their Plugins and Clips — there is no
// shared or cyclic ownership inside the model.
type Session struct {
	tempoBPM   atomic.Uint64 // float64 bits, CAS-free single-writer-at-a-time field
	sampleRate atomic.Uint64 // float64 bits; latched once at startup from the Sink

	tracksMu sync.Mutex
	tracks   map[int32]*Track

	levelsMu sync.Mutex
	levels   map[int32]Levels

	quit atomic.Bool
}

// New constructs an empty Session latched to sampleRate. Per spec, sample
// rate is set once at engine start from the Sink and is immutable
// thereafter; there is deliberately no SetSampleRate.
func New(sampleRate float64) *Session {
	s := &Session{
		tracks: make(map[int32]*Track),
		levels: make(map[int32]Levels),
	}
	s.sampleRate.Store(math.Float64bits(sampleRate))
	s.tempoBPM.Store(math.Float64bits(120.0))
	return s
}

// SampleRate returns the latched device sample rate.
func (s *Session) SampleRate() float64 {
	return math.Float64frombits(s.sampleRate.Load())
}

// TempoBPM returns the current session tempo.
func (s *Session) TempoBPM() float64 {
	return math.Float64frombits(s.tempoBPM.Load())
}

// SetTempoBPM updates the session tempo, observed by the Scheduler no later
// than its next block.
func (s *Session) SetTempoBPM(bpm float64) {
	s.tempoBPM.Store(math.Float64bits(bpm))
}

// Quit reports whether RequestQuit() has been called.
func (s *Session) Quit() bool {
	return s.quit.Load()
}

// RequestQuit sets the quit flag the Scheduler and Command Router both poll.
func (s *Session) RequestQuit() {
	s.quit.Store(true)
}

// GetOrCreateTrack lazily inserts a Track at index if one doesn't exist yet.
func (s *Session) GetOrCreateTrack(index int32) *Track {
	s.tracksMu.Lock()
	defer s.tracksMu.Unlock()

	t, ok := s.tracks[index]
	if !ok {
		t = NewTrack(index, s.SampleRate())
		s.tracks[index] = t
	}
	return t
}

// Track returns the track at index, or ok=false if it hasn't been created.
func (s *Session) Track(index int32) (*Track, bool) {
	s.tracksMu.Lock()
	defer s.tracksMu.Unlock()
	t, ok := s.tracks[index]
	return t, ok
}

// Tracks returns a stable-ordered snapshot of every track index currently
// present, for iteration by the Scheduler and PlayScene/Stop-all handling.
func (s *Session) Tracks() []*Track {
	s.tracksMu.Lock()
	defer s.tracksMu.Unlock()

	out := make([]*Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Reset empties the tracks map, deactivating every plugin first. Used by
// LoadProject before reconstructing from a persisted snapshot.
func (s *Session) Reset() {
	s.tracksMu.Lock()
	defer s.tracksMu.Unlock()
	for _, t := range s.tracks {
		t.Shutdown()
	}
	s.tracks = make(map[int32]*Track)

	s.levelsMu.Lock()
	s.levels = make(map[int32]Levels)
	s.levelsMu.Unlock()
}

// SetLevels records the latest peak snapshot for a track.
func (s *Session) SetLevels(track int32, l Levels) {
	s.levelsMu.Lock()
	defer s.levelsMu.Unlock()
	s.levels[track] = l
}

// ClearLevels zeroes every track's peak snapshot, used when no track is
// playing.
func (s *Session) ClearLevels() {
	s.levelsMu.Lock()
	defer s.levelsMu.Unlock()
	for k := range s.levels {
		s.levels[k] = Levels{}
	}
}

// AllLevels returns a snapshot of every track's current peaks, keyed by
// track index, for the TrackLevels notification.
func (s *Session) AllLevels() map[int32]Levels {
	s.levelsMu.Lock()
	defer s.levelsMu.Unlock()

	out := make(map[int32]Levels, len(s.levels))
	for k, v := range s.levels {
		out[k] = v
	}
	return out
}
