package process

// HostContext carries transport state the Scheduler derives once per block
// and offers read-only to every plugin in a track's chain. Plugins must not
// retain a HostContext past the Process call it was passed to.
type HostContext struct {
	SampleRate            float64
	Tempo                 float64 // current session tempo, beats per minute
	TimeSigNum            int32
	TimeSigDen            int32
	ContinuousTimeSamples int64   // monotonic sample count since engine start
	ProjectTimeMusic      float64 // quarter notes since transport start
}

// NoteEvent is a sample-accurate note event delivered to an instrument's
// Process call, windowed to the current block by the Scheduler from a
// track's MidiClip.
type NoteEvent struct {
	SampleOffset int32
	Channel      uint8
	Pitch        uint8
	Velocity     float32 // 0 for note-off
	IsNoteOn     bool
}
