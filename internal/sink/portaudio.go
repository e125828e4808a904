package sink

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/klknn/hibiki/pkg/dsp/buffer"
)

// PortAudioSink opens the default output device via PortAudio and drains a
// WriteAheadBuffer from its realtime callback, so the Scheduler's calls to
// Write never run on the callback thread itself.
type PortAudioSink struct {
	stream     *portaudio.Stream
	buf        *buffer.WriteAheadBuffer
	sampleRate float64
	channels   int
	ready      bool
}

// New opens the default PortAudio output stream at sampleRate with the
// given channel count, buffering writes through a latencyMs write-ahead
// ring. The returned Sink's SampleRate() reports the rate actually
// negotiated, which PortAudio's default device host API may adjust.
func New(sampleRate float64, channels int, latencyMs float64) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("sink: portaudio init: %w", err)
	}

	s := &PortAudioSink{
		buf:        buffer.NewWriteAheadBufferWithLatency(sampleRate, channels, latencyMs),
		sampleRate: sampleRate,
		channels:   channels,
	}

	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, 0, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("sink: open default stream: %w", err)
	}
	s.stream = stream
	if info := stream.Info(); info != nil && info.SampleRate > 0 {
		s.sampleRate = info.SampleRate
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("sink: start stream: %w", err)
	}

	s.ready = true
	return s, nil
}

// callback runs on PortAudio's realtime thread; it must not block beyond
// draining whatever the ring buffer currently holds.
func (s *PortAudioSink) callback(out []float32) {
	n := s.buf.Read(out)
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

func (s *PortAudioSink) SampleRate() float64 { return s.sampleRate }

func (s *PortAudioSink) IsReady() bool { return s.ready }

// Write sanitizes and pushes nFrames*channels interleaved samples into the
// write-ahead ring, blocking briefly if the ring is temporarily full rather
// than dropping audio.
func (s *PortAudioSink) Write(frames []float32, nFrames int) error {
	want := nFrames * s.channels
	if want > len(frames) {
		want = len(frames)
	}
	clean := make([]float32, want)
	for i := 0; i < want; i++ {
		clean[i] = sanitize(frames[i])
	}

	for {
		err := s.buf.Write(clean)
		if err == nil {
			return nil
		}
		// Transient overrun: the callback hasn't drained enough yet.
		time.Sleep(time.Millisecond)
	}
}

func (s *PortAudioSink) Close() error {
	if s.stream == nil {
		return nil
	}
	s.ready = false
	if err := s.stream.Stop(); err != nil {
		return err
	}
	if err := s.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
