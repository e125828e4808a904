package project

import (
	"bytes"
	"testing"

	"github.com/klknn/hibiki/internal/session"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := Project{
		BPM: 128,
		Tracks: []TrackRecord{
			{
				Index: 3,
				Plugins: []PluginRecord{
					{Path: "mock.synth", Subindex: 0, Params: []ParamRecord{{ID: 4, Value: 0.5}}},
					{Path: "mock.gain", Subindex: 0, Params: nil},
				},
				Clips: []ClipRecord{
					{Slot: 0, Path: "lead.mid", IsLoop: false, Type: session.TypeMidi},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatal(err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.BPM != p.BPM {
		t.Errorf("BPM = %v, want %v", got.BPM, p.BPM)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].Index != 3 {
		t.Fatalf("Tracks = %+v", got.Tracks)
	}
	if len(got.Tracks[0].Plugins) != 2 || got.Tracks[0].Plugins[0].Path != "mock.synth" {
		t.Fatalf("Plugins = %+v", got.Tracks[0].Plugins)
	}
	if got.Tracks[0].Plugins[0].Params[0].Value != 0.5 {
		t.Errorf("param value = %v, want 0.5", got.Tracks[0].Plugins[0].Params[0].Value)
	}
	if len(got.Tracks[0].Clips) != 1 || got.Tracks[0].Clips[0].Path != "lead.mid" {
		t.Fatalf("Clips = %+v", got.Tracks[0].Clips)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("NOTHIBIKI!!"))); err == nil {
		t.Fatal("expected an error for a bad magic header")
	}
}

func TestSnapshotReflectsLiveSession(t *testing.T) {
	sess := session.New(48000)
	tr := sess.GetOrCreateTrack(0)
	if _, err := tr.LoadPlugin("mock.gain", 0); err != nil {
		t.Fatal(err)
	}
	sess.SetTempoBPM(140)

	snap := Snapshot(sess)
	if snap.BPM != 140 {
		t.Errorf("BPM = %v, want 140", snap.BPM)
	}
	if len(snap.Tracks) != 1 || len(snap.Tracks[0].Plugins) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Tracks[0].Plugins[0].Path != "mock.gain" {
		t.Errorf("plugin path = %q, want mock.gain", snap.Tracks[0].Plugins[0].Path)
	}
}
