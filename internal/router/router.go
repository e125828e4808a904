// Package router dispatches decoded wire requests against a Session and
// writes the matching wire responses, implementing the command table: every
// request either mutates the session and replies, or (LoadPlugin/LoadClip)
// replies only after the mutation's outcome is known.
package router

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/klknn/hibiki/internal/project"
	"github.com/klknn/hibiki/internal/session"
	"github.com/klknn/hibiki/internal/wire"
)

// Logger is the process-level diagnostic sink, distinct from wire.Writer's
// Log notification: it never reaches the controlling client, only the
// engine's own stderr.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Router owns the live Session and the single outbound Writer, and applies
// every decoded Request to them.
type Router struct {
	sess *session.Session
	out  *wire.Writer
	log  Logger
}

// LevelsNotifier adapts a wire.Writer to the Scheduler's Notifier interface,
// so the audio thread's one self-originated notification goes through the
// same outbound-writer lock as every router-issued response.
type LevelsNotifier struct {
	out *wire.Writer
	log Logger
}

// NewLevelsNotifier wraps out for use as a scheduler.Notifier.
func NewLevelsNotifier(out *wire.Writer, log Logger) LevelsNotifier {
	return LevelsNotifier{out: out, log: log}
}

// NotifyTrackLevels writes one TrackLevels response for the given snapshot.
func (n LevelsNotifier) NotifyTrackLevels(levels map[int32]session.Levels) {
	entries := make([]wire.TrackLevel, 0, len(levels))
	for track, l := range levels {
		entries = append(entries, wire.TrackLevel{Track: track, PeakL: l.PeakL, PeakR: l.PeakR})
	}
	if err := n.out.WriteTrackLevels(entries); err != nil {
		n.log.Errorf("router: write track levels: %v", err)
	}
}

// New constructs a Router over sess, writing responses to out and logging
// process-level faults (not sent to the client) via log.
func New(sess *session.Session, out *wire.Writer, log Logger) *Router {
	return &Router{sess: sess, out: out, log: log}
}

// Serve reads framed requests from r until EOF, an oversize frame, or a Quit
// request, dispatching each one in turn. EOF is treated as an implicit Quit,
// matching a client that simply closes its write side instead of sending the
// Quit command.
func (rt *Router) Serve(r io.Reader) error {
	for {
		payload, err := wire.ReadFrame(r)
		if err == io.EOF {
			rt.sess.RequestQuit()
			return nil
		}
		if err == wire.ErrFrameTooLarge {
			rt.log.Errorf("router: oversize frame received, terminating")
			rt.sess.RequestQuit()
			return err
		}
		if err != nil {
			rt.log.Errorf("router: read frame: %v", err)
			rt.sess.RequestQuit()
			return err
		}

		req, err := wire.DecodeRequest(payload)
		if err != nil {
			rt.log.Errorf("router: decode request: %v", err)
			continue
		}

		rt.Dispatch(req)
		if rt.sess.Quit() {
			return nil
		}
	}
}

// Dispatch applies one decoded request and writes its response, per the
// command table. Errors from fallible operations are reported to the
// process log; most acknowledgements are unconditional by design (the
// underlying track operations are idempotent no-ops on bad indices, not
// failures a client needs to react to).
func (rt *Router) Dispatch(req wire.Request) {
	switch req.Kind {
	case wire.KindLoadPlugin:
		rt.loadPlugin(req)
	case wire.KindLoadClip:
		rt.loadClip(req)
	case wire.KindSetClipLoop:
		tr := rt.sess.GetOrCreateTrack(req.Track)
		tr.SetClipLoop(req.Slot, req.IsLoop)
		rt.ack("SET_CLIP_LOOP", true)
	case wire.KindDeleteClip:
		rt.deleteClip(req)
	case wire.KindPlayClip:
		rt.sess.GetOrCreateTrack(req.Track).PlayClip(req.Slot)
		rt.ack("PLAY_CLIP", true)
	case wire.KindPlayScene:
		for _, tr := range rt.sess.Tracks() {
			tr.PlayClip(req.Slot)
		}
		rt.ack("PLAY_SCENE", true)
	case wire.KindStop:
		for _, tr := range rt.sess.Tracks() {
			tr.Stop()
		}
		rt.ack("STOP", true)
	case wire.KindStopTrack:
		rt.sess.GetOrCreateTrack(req.Track).Stop()
		rt.ack("STOP_TRACK", true)
	case wire.KindRemovePlugin:
		ok := rt.sess.GetOrCreateTrack(req.Track).RemovePlugin(int(req.Position))
		rt.ack("REMOVE_PLUGIN", ok)
	case wire.KindShowPluginGui:
		// No plugin in this host's catalog exposes a real editor; there is
		// nothing to open and the command has no response.
	case wire.KindSetParamValue:
		tr := rt.sess.GetOrCreateTrack(req.Track)
		if err := tr.SetParamValue(int(req.Position), req.ID, float64(req.Value)); err != nil {
			rt.log.Errorf("router: set param value: %v", err)
		}
	case wire.KindSetBpm:
		rt.sess.SetTempoBPM(float64(req.Bpm))
		rt.ack("SET_BPM", true)
	case wire.KindSaveProject:
		if err := project.Save(rt.sess, req.Path); err != nil {
			rt.log.Errorf("router: save project: %v", err)
		}
		rt.ack("SAVE_PROJECT", true)
	case wire.KindLoadProject:
		rt.loadProject(req)
	case wire.KindQuit:
		rt.sess.RequestQuit()
	default:
		rt.log.Errorf("router: unhandled request kind %d", req.Kind)
	}
}

func (rt *Router) ack(cmdName string, ok bool) {
	if err := rt.out.WriteAck(cmdName, ok); err != nil {
		rt.log.Errorf("router: write ack %s: %v", cmdName, err)
	}
}

func (rt *Router) loadPlugin(req wire.Request) {
	tr := rt.sess.GetOrCreateTrack(req.Track)
	result, err := tr.LoadPlugin(req.Path, req.Subindex)
	if err != nil {
		if werr := rt.out.WriteLog(fmt.Sprintf("Failed to load plugin: %s", req.Path)); werr != nil {
			rt.log.Errorf("router: write log: %v", werr)
		}
		return
	}

	for _, slot := range result.RemovedAudioSlots {
		if err := rt.out.WriteClipInfo(req.Track, slot, ""); err != nil {
			rt.log.Errorf("router: write clip info: %v", err)
		}
	}

	snap, ok := tr.PluginAt(result.Position)
	if !ok {
		return
	}
	rt.writeParamList(req.Track, snap)
}

func (rt *Router) writeParamList(track int32, snap session.PluginSnapshot) {
	params := make([]wire.ParamInfo, len(snap.Params))
	for i, p := range snap.Params {
		params[i] = wire.ParamInfo{ID: p.ID, Name: p.Name, Default: float32(p.Default)}
	}
	if err := rt.out.WriteParamList(track, int32(snap.Position), snap.Name, snap.IsInstrument, params); err != nil {
		rt.log.Errorf("router: write param list: %v", err)
	}
}

func (rt *Router) loadClip(req wire.Request) {
	tr := rt.sess.GetOrCreateTrack(req.Track)
	result, err := tr.LoadClip(req.Slot, req.Path, req.IsLoop)
	ok := err == nil
	rt.ack("LOAD_CLIP", ok)
	if !ok {
		return
	}

	for _, pos := range result.RemovedInstrumentPositions {
		if err := rt.out.WriteParamList(req.Track, int32(pos), "", true, nil); err != nil {
			rt.log.Errorf("router: write param list: %v", err)
		}
	}

	if err := rt.out.WriteClipInfo(req.Track, req.Slot, filepath.Base(req.Path)); err != nil {
		rt.log.Errorf("router: write clip info: %v", err)
	}

	if result.ClipType == session.TypeAudio && result.WaveformSummary != nil {
		if err := rt.out.WriteClipWaveform(req.Track, req.Slot, *result.WaveformSummary); err != nil {
			rt.log.Errorf("router: write clip waveform: %v", err)
		}
	}
}

func (rt *Router) deleteClip(req wire.Request) {
	tr := rt.sess.GetOrCreateTrack(req.Track)
	ok := tr.DeleteClip(req.Slot)
	rt.ack("DELETE_CLIP", ok)
	if ok {
		if err := rt.out.WriteClipInfo(req.Track, req.Slot, ""); err != nil {
			rt.log.Errorf("router: write clip info: %v", err)
		}
	}
}

// loadProject replaces the entire session with the contents of the project
// file at req.Path, then replays it as ClearProject followed by one
// ParamList/ClipInfo pair per restored plugin and clip, matching what a
// client would see if it issued the equivalent LoadPlugin/LoadClip/
// SetParamValue calls itself.
func (rt *Router) loadProject(req wire.Request) {
	p, err := project.Load(req.Path)
	if err != nil {
		rt.log.Errorf("router: load project: %v", err)
		rt.ack("LOAD_PROJECT", true)
		return
	}

	if err := rt.out.WriteClearProject(); err != nil {
		rt.log.Errorf("router: write clear project: %v", err)
	}

	rt.sess.Reset()
	rt.sess.SetTempoBPM(float64(p.BPM))

	for _, trackRecord := range p.Tracks {
		tr := rt.sess.GetOrCreateTrack(trackRecord.Index)

		for _, pluginRecord := range trackRecord.Plugins {
			result, err := tr.LoadPlugin(pluginRecord.Path, pluginRecord.Subindex)
			if err != nil {
				rt.log.Errorf("router: load project: restore plugin %s: %v", pluginRecord.Path, err)
				continue
			}
			for _, pv := range pluginRecord.Params {
				if err := tr.SetParamValue(result.Position, pv.ID, float64(pv.Value)); err != nil {
					rt.log.Errorf("router: load project: restore param: %v", err)
				}
			}
			if snap, ok := tr.PluginAt(result.Position); ok {
				rt.writeParamList(trackRecord.Index, snap)
			}
		}

		for _, clipRecord := range trackRecord.Clips {
			clipResult, err := tr.LoadClip(clipRecord.Slot, clipRecord.Path, clipRecord.IsLoop)
			if err != nil {
				rt.log.Errorf("router: load project: restore clip %s: %v", clipRecord.Path, err)
				continue
			}
			if err := rt.out.WriteClipInfo(trackRecord.Index, clipRecord.Slot, filepath.Base(clipRecord.Path)); err != nil {
				rt.log.Errorf("router: write clip info: %v", err)
			}
			if clipResult.ClipType == session.TypeAudio && clipResult.WaveformSummary != nil {
				if err := rt.out.WriteClipWaveform(trackRecord.Index, clipRecord.Slot, *clipResult.WaveformSummary); err != nil {
					rt.log.Errorf("router: write clip waveform: %v", err)
				}
			}
		}
	}

	rt.ack("LOAD_PROJECT", true)
}
