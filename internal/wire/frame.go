// Package wire implements the engine's length-prefixed command/response
// protocol: a u32_le byte count followed by exactly that many bytes of
// payload, in both directions over an OS-piped byte channel.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameLength is the largest payload this protocol accepts. A declared
// length beyond this is a protocol error that terminates the connection.
const MaxFrameLength = 1 << 20 // 1 MiB

// ErrFrameTooLarge is returned by ReadFrame when a declared length exceeds
// MaxFrameLength.
var ErrFrameTooLarge = errors.New("wire: declared frame length exceeds 1 MiB")

// ReadFrame reads one length-prefixed frame from r. It returns io.EOF
// unmodified when r is exhausted before any byte of a new frame is read,
// so callers can treat that as a clean shutdown.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("wire: truncated frame length: %w", err)
		}
		return nil, err
	}

	length := binary.LittleEndian.Uint32(lenBuf[:])
	if length > MaxFrameLength {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("wire: truncated frame payload: %w", err)
	}
	return payload, nil
}

// WriteFrame writes payload to w prefixed with its u32_le length.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameLength {
		return ErrFrameTooLarge
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
