package scheduler

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klknn/hibiki/pkg/midi"
)

const testPPQ = 480
const testMicrosPerBeat = 500000.0 // 120 BPM, matches midi.LoadSMF's default

func writeVarLen(buf *bytes.Buffer, value uint32) {
	var bytesOut []byte
	bytesOut = append(bytesOut, byte(value&0x7F))
	value >>= 7
	for value > 0 {
		bytesOut = append(bytesOut, byte(value&0x7F)|0x80)
		value >>= 7
	}
	for i := len(bytesOut) - 1; i >= 0; i-- {
		buf.WriteByte(bytesOut[i])
	}
}

// writeTestSMF hand-builds a minimal type-0 standard MIDI file containing
// the given note events (time-sorted, TimeSec relative to the file start,
// interpreted at the default 120 BPM midi.LoadSMF assumes with no tempo
// meta event present).
func writeTestSMF(t *testing.T, events []midi.ClipEvent) string {
	t.Helper()

	var track bytes.Buffer
	lastTick := uint32(0)
	for _, e := range events {
		tick := uint32(e.TimeSec * testPPQ * 1e6 / testMicrosPerBeat)
		delta := tick - lastTick
		lastTick = tick

		writeVarLen(&track, delta)
		track.WriteByte(e.Status)
		track.WriteByte(e.Note)
		track.WriteByte(e.Velocity)
	}
	writeVarLen(&track, 0)
	track.Write([]byte{0xFF, 0x2F, 0x00}) // end of track

	var out bytes.Buffer
	out.WriteString("MThd")
	binary.Write(&out, binary.BigEndian, uint32(6))
	binary.Write(&out, binary.BigEndian, uint16(0)) // format 0
	binary.Write(&out, binary.BigEndian, uint16(1)) // 1 track
	binary.Write(&out, binary.BigEndian, uint16(testPPQ))

	out.WriteString("MTrk")
	binary.Write(&out, binary.BigEndian, uint32(track.Len()))
	out.Write(track.Bytes())

	path := filepath.Join(t.TempDir(), "clip.mid")
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	return path
}
