package wire

import (
	"bytes"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello frame")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadFrame = %q, want %q", got, payload)
	}
}

func TestReadFrameRejectsOversizeLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x00, 0x20}) // 0x20000000 little-endian, 512 MiB

	if _, err := ReadFrame(&buf); err != ErrFrameTooLarge {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestReadFrameReturnsEOFOnEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF reading an empty stream", err)
	}
}

func TestDecodeRequestLoadPlugin(t *testing.T) {
	payload := EncodeLoadPlugin(2, "mock.synth", 0)
	req, err := DecodeRequest(payload)
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != KindLoadPlugin || req.Track != 2 || req.Path != "mock.synth" || req.Subindex != 0 {
		t.Errorf("decoded = %+v, want LoadPlugin{2, mock.synth, 0}", req)
	}
}

func TestDecodeRequestSetParamValue(t *testing.T) {
	payload := EncodeSetParamValue(1, 0, 3, 0.75)
	req, err := DecodeRequest(payload)
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != KindSetParamValue || req.Track != 1 || req.Position != 0 || req.ID != 3 || req.Value != 0.75 {
		t.Errorf("decoded = %+v, want SetParamValue{1,0,3,0.75}", req)
	}
}

func TestDecodeRequestQuitHasNoTrailingBytes(t *testing.T) {
	req, err := DecodeRequest(EncodeQuit())
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != KindQuit {
		t.Errorf("Kind = %v, want KindQuit", req.Kind)
	}
}

func TestDecodeRequestUnknownKindErrors(t *testing.T) {
	if _, err := DecodeRequest([]byte{0xFF}); err == nil {
		t.Fatal("expected an error for an unknown request kind")
	}
}

func TestDecodeRequestTruncatedPayloadErrors(t *testing.T) {
	payload := EncodeLoadPlugin(2, "mock.synth", 0)
	if _, err := DecodeRequest(payload[:len(payload)-2]); err == nil {
		t.Fatal("expected an error for a truncated payload")
	}
}

func TestWriterRoundTripsEveryResponseKind(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.WriteAck("LOAD_CLIP", true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteParamList(0, 0, "mock.gain", false, []ParamInfo{{ID: 0, Name: "Gain", Default: 0.5}}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteClipInfo(0, 1, "loop.wav"); err != nil {
		t.Fatal(err)
	}
	var peaks [256]float32
	peaks[10] = 0.5
	if err := w.WriteClipWaveform(0, 1, peaks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteTrackLevels([]TrackLevel{{Track: 0, PeakL: 0.1, PeakR: 0.2}}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLog("Failed to load plugin: bad.vst3"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteClearProject(); err != nil {
		t.Fatal(err)
	}

	expectKinds := []ResponseKind{
		KindAcknowledge, KindParamList, KindClipInfo, KindClipWaveform,
		KindTrackLevels, KindLog, KindClearProject,
	}
	for _, want := range expectKinds {
		frame, err := ReadFrame(&buf)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := DecodeResponse(frame)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Kind != want {
			t.Errorf("Kind = %v, want %v", resp.Kind, want)
		}
	}

	if buf.Len() != 0 {
		t.Errorf("%d unexpected trailing bytes after decoding every written response", buf.Len())
	}
}
