package session

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeTestWav(t *testing.T, channels, sampleRate int, samples []int16) string {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func TestLoadClipDispatchesWavToAudio(t *testing.T) {
	path := writeTestWav(t, 2, 44100, []int16{100, -100, 200, -200})

	clip, err := LoadClip(path, true)
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	if clip.Type() != TypeAudio {
		t.Fatalf("Type() = %v, want TypeAudio", clip.Type())
	}
	if !clip.IsLoop() {
		t.Error("IsLoop() = false, want true")
	}
	audio := clip.(*AudioClip)
	if audio.Channels != 2 {
		t.Errorf("Channels = %d, want 2", audio.Channels)
	}
}

func TestLoadClipRejectsNonPCMWav(t *testing.T) {
	path := writeTestWav(t, 1, 44100, []int16{1, 2, 3})
	raw, _ := os.ReadFile(path)
	raw[20] = 3 // corrupt format tag to IEEE float
	os.WriteFile(path, raw, 0644)

	if _, err := LoadClip(path, false); err == nil {
		t.Fatal("expected error for non-PCM wav")
	}
}

func TestSetLoopTogglesWithoutReload(t *testing.T) {
	c := &AudioClip{Loop: false}
	c.SetLoop(true)
	if !c.IsLoop() {
		t.Error("SetLoop(true) did not stick")
	}
}
