// Package project implements the engine's deterministic binary project
// format: a snapshot of every track's plugin chain and clip slots, plus the
// session tempo. This package only encodes and decodes; applying a loaded
// Project back onto a Session (and emitting the restore notifications) is
// the Command Router's job.
package project

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klknn/hibiki/internal/session"
)

const magic = "HIBIKIPROJ"
const formatVersion uint32 = 1

// ParamRecord is one persisted parameter value.
type ParamRecord struct {
	ID    uint32
	Value float32
}

// PluginRecord is one persisted chain entry.
type PluginRecord struct {
	Path     string
	Subindex int32
	Params   []ParamRecord
}

// ClipRecord is one persisted clip slot.
type ClipRecord struct {
	Slot   int32
	Path   string
	IsLoop bool
	Type   session.Type
}

// TrackRecord is one persisted track.
type TrackRecord struct {
	Index   int32
	Plugins []PluginRecord
	Clips   []ClipRecord
}

// Project is the full persisted session snapshot.
type Project struct {
	BPM    float32
	Tracks []TrackRecord
}

// Snapshot builds a Project from the live session, matching the "snapshot
// under tracks_lock + each track's lock" rule: Session.Tracks() holds
// tracks_lock for its own duration, and each Track's ChainSnapshot/
// ClipSnapshot call holds that track's own lock for its duration — no lock
// is held across a track boundary.
func Snapshot(sess *session.Session) Project {
	tracks := sess.Tracks()
	records := make([]TrackRecord, len(tracks))
	for i, t := range tracks {
		chain := t.ChainSnapshot()
		plugins := make([]PluginRecord, len(chain))
		for j, c := range chain {
			params := make([]ParamRecord, len(c.Params))
			for k, p := range c.Params {
				params[k] = ParamRecord{ID: p.ID, Value: float32(p.Value)}
			}
			plugins[j] = PluginRecord{Path: c.Path, Subindex: c.Subindex, Params: params}
		}

		clips := t.ClipSnapshot()
		clipRecords := make([]ClipRecord, len(clips))
		for j, c := range clips {
			clipRecords[j] = ClipRecord{Slot: c.Slot, Path: c.Path, IsLoop: c.IsLoop, Type: c.Type}
		}

		records[i] = TrackRecord{Index: t.Index, Plugins: plugins, Clips: clipRecords}
	}
	return Project{BPM: float32(sess.TempoBPM()), Tracks: records}
}

// Save snapshots sess and writes it to path.
func Save(sess *session.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("project: create %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, Snapshot(sess))
}

// Load reads and decodes the project file at path. It does not mutate any
// Session; the caller applies the result.
func Load(path string) (Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, fmt.Errorf("project: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes p to w in this package's binary format.
func Encode(w io.Writer, p Project) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, p.BPM); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Tracks))); err != nil {
		return err
	}
	for _, t := range p.Tracks {
		if err := writeTrack(w, t); err != nil {
			return err
		}
	}
	return nil
}

func writeTrack(w io.Writer, t TrackRecord) error {
	if err := binary.Write(w, binary.LittleEndian, t.Index); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(t.Plugins))); err != nil {
		return err
	}
	for _, p := range t.Plugins {
		if err := writeString(w, p.Path); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.Subindex); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Params))); err != nil {
			return err
		}
		for _, pv := range p.Params {
			if err := binary.Write(w, binary.LittleEndian, pv.ID); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, pv.Value); err != nil {
				return err
			}
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(t.Clips))); err != nil {
		return err
	}
	for _, c := range t.Clips {
		if err := binary.Write(w, binary.LittleEndian, c.Slot); err != nil {
			return err
		}
		if err := writeString(w, c.Path); err != nil {
			return err
		}
		if err := writeBool(w, c.IsLoop); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(c.Type)); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeBool(w io.Writer, b bool) error {
	v := uint8(0)
	if b {
		v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

// Decode reads a Project previously written by Encode.
func Decode(r io.Reader) (Project, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return Project{}, fmt.Errorf("project: read header: %w", err)
	}
	if string(header) != magic {
		return Project{}, fmt.Errorf("project: bad magic %q", header)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Project{}, err
	}
	if version > formatVersion {
		return Project{}, fmt.Errorf("project: format version %d newer than supported %d", version, formatVersion)
	}

	var p Project
	if err := binary.Read(r, binary.LittleEndian, &p.BPM); err != nil {
		return Project{}, err
	}

	var numTracks uint32
	if err := binary.Read(r, binary.LittleEndian, &numTracks); err != nil {
		return Project{}, err
	}
	p.Tracks = make([]TrackRecord, numTracks)
	for i := range p.Tracks {
		t, err := readTrack(r)
		if err != nil {
			return Project{}, err
		}
		p.Tracks[i] = t
	}
	return p, nil
}

func readTrack(r io.Reader) (TrackRecord, error) {
	var t TrackRecord
	if err := binary.Read(r, binary.LittleEndian, &t.Index); err != nil {
		return t, err
	}

	var numPlugins uint32
	if err := binary.Read(r, binary.LittleEndian, &numPlugins); err != nil {
		return t, err
	}
	t.Plugins = make([]PluginRecord, numPlugins)
	for i := range t.Plugins {
		path, err := readString(r)
		if err != nil {
			return t, err
		}
		var subindex int32
		if err := binary.Read(r, binary.LittleEndian, &subindex); err != nil {
			return t, err
		}
		var numParams uint32
		if err := binary.Read(r, binary.LittleEndian, &numParams); err != nil {
			return t, err
		}
		params := make([]ParamRecord, numParams)
		for j := range params {
			if err := binary.Read(r, binary.LittleEndian, &params[j].ID); err != nil {
				return t, err
			}
			if err := binary.Read(r, binary.LittleEndian, &params[j].Value); err != nil {
				return t, err
			}
		}
		t.Plugins[i] = PluginRecord{Path: path, Subindex: subindex, Params: params}
	}

	var numClips uint32
	if err := binary.Read(r, binary.LittleEndian, &numClips); err != nil {
		return t, err
	}
	t.Clips = make([]ClipRecord, numClips)
	for i := range t.Clips {
		var slot int32
		if err := binary.Read(r, binary.LittleEndian, &slot); err != nil {
			return t, err
		}
		path, err := readString(r)
		if err != nil {
			return t, err
		}
		isLoop, err := readBool(r)
		if err != nil {
			return t, err
		}
		var typeTag uint8
		if err := binary.Read(r, binary.LittleEndian, &typeTag); err != nil {
			return t, err
		}
		t.Clips[i] = ClipRecord{Slot: slot, Path: path, IsLoop: isLoop, Type: session.Type(typeTag)}
	}
	return t, nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return false, err
	}
	return v != 0, nil
}
