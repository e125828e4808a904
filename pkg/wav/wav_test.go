package wav

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildWav(t *testing.T, channels, sampleRate int, samples []int16) []byte {
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
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * channels * 2
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	blockAlign := channels * 2
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestDecodeStereo16BitPCM(t *testing.T) {
	raw := buildWav(t, 2, 44100, []int16{16384, -16384, 0, 32767})

	f, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Channels != 2 {
		t.Errorf("Channels = %d, want 2", f.Channels)
	}
	if f.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", f.SampleRate)
	}
	if len(f.Samples) != 4 {
		t.Fatalf("len(Samples) = %d, want 4", len(f.Samples))
	}
	if got, want := f.Samples[0], float32(0.5); got != want {
		t.Errorf("Samples[0] = %v, want %v", got, want)
	}
}

func TestDecodeRejectsNonPCM(t *testing.T) {
	raw := buildWav(t, 1, 44100, []int16{1, 2, 3})
	// Corrupt the format tag (offset 20 in the buffer) to a non-PCM value (3 = IEEE float).
	raw[20] = 3

	if _, err := Decode(bytes.NewReader(raw)); err == nil {
		t.Fatal("expected error for non-PCM format")
	}
}

func TestWaveformSummaryBucketCount(t *testing.T) {
	samples := make([]int16, 2048)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}
	raw := buildWav(t, 1, 44100, samples)

	f, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	summary := f.WaveformSummary()
	if len(summary) != 256 {
		t.Fatalf("len(summary) = %d, want 256", len(summary))
	}
}
