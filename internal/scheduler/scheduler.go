// Package scheduler implements the engine's audio thread: a fixed-block
// render loop that walks the session, drives each Track, mixes the result,
// and feeds the Sink.
package scheduler

import (
	"time"

	"github.com/klknn/hibiki/internal/session"
	"github.com/klknn/hibiki/internal/sink"
	"github.com/klknn/hibiki/pkg/dsp/debug"
)

// OutChannels is the engine's fixed output channel count.
const OutChannels = 2

// levelsNotifyEveryNBlocks matches spec's "every 4th rendered block, approx
// every ~46ms at 44.1kHz/512".
const levelsNotifyEveryNBlocks = 4

// idleSleep is how long the Scheduler rests when no track played this block,
// so it doesn't spin the control-responsiveness floor away on an idle
// session.
const idleSleep = 10 * time.Millisecond

// Notifier is how the Scheduler publishes the one notification kind it
// originates itself; everything else goes through the Command Router.
type Notifier interface {
	NotifyTrackLevels(levels map[int32]session.Levels)
}

// Scheduler owns the audio thread's render loop. Run blocks until
// Session.Quit() is observed, so callers typically run it in its own
// goroutine and join it before tearing down plugins.
type Scheduler struct {
	sess     *session.Session
	sink     sink.Sink
	notifier Notifier

	mixL, mixR []float32
	bufL, bufR []float32
	frames     []float32

	renderedBlocks uint64
}

// New constructs a Scheduler over sess, writing mixed blocks to snk and
// reporting level updates through notifier.
func New(sess *session.Session, snk sink.Sink, notifier Notifier) *Scheduler {
	return &Scheduler{
		sess:     sess,
		sink:     snk,
		notifier: notifier,
		mixL:     make([]float32, session.BlockSize),
		mixR:     make([]float32, session.BlockSize),
		bufL:     make([]float32, session.BlockSize),
		bufR:     make([]float32, session.BlockSize),
		frames:   make([]float32, session.BlockSize*OutChannels),
	}
}

// Run executes the per-block algorithm until the session is asked to quit or
// the Sink is unavailable. It returns nil on a clean quit.
func (s *Scheduler) Run() error {
	if !s.sink.IsReady() {
		return nil
	}

	for !s.sess.Quit() {
		s.renderOneBlock()
	}
	return nil
}

// renderOneBlock renders all tracks into s.mixL/s.mixR for one block. Built
// with -tags debug, this also tracks per-block allocations on the hot scratch
// buffers via pkg/dsp/debug; without the tag every debug.* call here is a
// no-op.
func (s *Scheduler) renderOneBlock() {
	debug.StartFrame()
	debug.CheckAllocation(s.mixL, "mixL")
	debug.CheckAllocation(s.mixR, "mixR")
	defer debug.EndFrame()

	for i := range s.mixL {
		s.mixL[i] = 0
		s.mixR[i] = 0
	}

	anyPlayed := false
	for _, t := range s.sess.Tracks() {
		for i := range s.bufL {
			s.bufL[i] = 0
			s.bufR[i] = 0
		}

		played, peakL, peakR := t.RenderBlock(s.sess.TempoBPM(), s.bufL, s.bufR)
		if !played {
			continue
		}
		anyPlayed = true

		for i := range s.mixL {
			s.mixL[i] += s.bufL[i]
			s.mixR[i] += s.bufR[i]
		}
		s.sess.SetLevels(t.Index, session.Levels{PeakL: peakL, PeakR: peakR})
	}

	if !anyPlayed {
		s.sess.ClearLevels()
		time.Sleep(idleSleep)
		return
	}

	s.renderedBlocks++
	if s.notifier != nil && s.renderedBlocks%levelsNotifyEveryNBlocks == 0 {
		s.notifier.NotifyTrackLevels(s.sess.AllLevels())
	}

	for i := range s.bufL {
		s.frames[i*OutChannels] = s.mixL[i]
		s.frames[i*OutChannels+1] = s.mixR[i]
	}
	s.sink.Write(s.frames, len(s.bufL))
}
