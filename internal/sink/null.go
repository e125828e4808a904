package sink

// NullSink discards every block it's handed. Used for headless runs
// (`--null-sink`) and tests: commands still work, there's just nothing to
// hear.
type NullSink struct {
	sampleRate float64
}

// NewNullSink always succeeds, reporting back whatever rate was requested.
func NewNullSink(sampleRate float64) *NullSink { return &NullSink{sampleRate: sampleRate} }

func (n *NullSink) SampleRate() float64 { return n.sampleRate }

func (n *NullSink) IsReady() bool { return true }

func (n *NullSink) Write(frames []float32, nFrames int) error {
	return nil
}

func (n *NullSink) Close() error { return nil }
