package wire

import "fmt"

// RequestKind tags which variant a decoded Request holds.
type RequestKind uint8

const (
	KindLoadPlugin RequestKind = iota
	KindLoadClip
	KindSetClipLoop
	KindDeleteClip
	KindPlayClip
	KindPlayScene
	KindStop
	KindStopTrack
	KindRemovePlugin
	KindShowPluginGui
	KindSetParamValue
	KindSetBpm
	KindSaveProject
	KindLoadProject
	KindQuit
)

// Request is the decoded form of one inbound command. Only the fields
// relevant to Kind are populated; the router switches on Kind.
type Request struct {
	Kind RequestKind

	Track    int32
	Slot     int32
	Position int32
	Path     string
	Subindex int32
	IsLoop   bool
	ID       uint32
	Value    float32
	Bpm      float32
}

// DecodeRequest parses one frame payload into a Request.
func DecodeRequest(payload []byte) (Request, error) {
	d := newDecoder(payload)
	kind := RequestKind(d.u8())

	var req Request
	req.Kind = kind

	switch kind {
	case KindLoadPlugin:
		req.Track = d.i32()
		req.Path = d.str()
		req.Subindex = d.i32()
	case KindLoadClip:
		req.Track = d.i32()
		req.Slot = d.i32()
		req.Path = d.str()
		req.IsLoop = d.boolean()
	case KindSetClipLoop:
		req.Track = d.i32()
		req.Slot = d.i32()
		req.IsLoop = d.boolean()
	case KindDeleteClip:
		req.Track = d.i32()
		req.Slot = d.i32()
	case KindPlayClip:
		req.Track = d.i32()
		req.Slot = d.i32()
	case KindPlayScene:
		req.Slot = d.i32()
	case KindStop:
		// no fields
	case KindStopTrack:
		req.Track = d.i32()
	case KindRemovePlugin:
		req.Track = d.i32()
		req.Position = d.i32()
	case KindShowPluginGui:
		req.Track = d.i32()
		req.Position = d.i32()
	case KindSetParamValue:
		req.Track = d.i32()
		req.Position = d.i32()
		req.ID = d.u32()
		req.Value = d.f32()
	case KindSetBpm:
		req.Bpm = d.f32()
	case KindSaveProject:
		req.Path = d.str()
	case KindLoadProject:
		req.Path = d.str()
	case KindQuit:
		// no fields
	default:
		return Request{}, fmt.Errorf("wire: unknown request kind %d", kind)
	}

	if err := d.done(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Encode* helpers build request payloads; used by the CLI/test client side
// of this protocol, mirroring the Ack/notification encoders on the
// response side.

func EncodeLoadPlugin(track int32, path string, subindex int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindLoadPlugin))
	e.i32(track)
	e.str(path)
	e.i32(subindex)
	return e.bytes()
}

func EncodeLoadClip(track, slot int32, path string, isLoop bool) []byte {
	e := &encoder{}
	e.u8(uint8(KindLoadClip))
	e.i32(track)
	e.i32(slot)
	e.str(path)
	e.boolean(isLoop)
	return e.bytes()
}

func EncodeSetClipLoop(track, slot int32, isLoop bool) []byte {
	e := &encoder{}
	e.u8(uint8(KindSetClipLoop))
	e.i32(track)
	e.i32(slot)
	e.boolean(isLoop)
	return e.bytes()
}

func EncodeDeleteClip(track, slot int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindDeleteClip))
	e.i32(track)
	e.i32(slot)
	return e.bytes()
}

func EncodePlayClip(track, slot int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindPlayClip))
	e.i32(track)
	e.i32(slot)
	return e.bytes()
}

func EncodePlayScene(slot int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindPlayScene))
	e.i32(slot)
	return e.bytes()
}

func EncodeStop() []byte {
	e := &encoder{}
	e.u8(uint8(KindStop))
	return e.bytes()
}

func EncodeStopTrack(track int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindStopTrack))
	e.i32(track)
	return e.bytes()
}

func EncodeRemovePlugin(track, position int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindRemovePlugin))
	e.i32(track)
	e.i32(position)
	return e.bytes()
}

func EncodeShowPluginGui(track, position int32) []byte {
	e := &encoder{}
	e.u8(uint8(KindShowPluginGui))
	e.i32(track)
	e.i32(position)
	return e.bytes()
}

func EncodeSetParamValue(track, position int32, id uint32, value float32) []byte {
	e := &encoder{}
	e.u8(uint8(KindSetParamValue))
	e.i32(track)
	e.i32(position)
	e.u32(id)
	e.f32(value)
	return e.bytes()
}

func EncodeSetBpm(bpm float32) []byte {
	e := &encoder{}
	e.u8(uint8(KindSetBpm))
	e.f32(bpm)
	return e.bytes()
}

func EncodeSaveProject(path string) []byte {
	e := &encoder{}
	e.u8(uint8(KindSaveProject))
	e.str(path)
	return e.bytes()
}

func EncodeLoadProject(path string) []byte {
	e := &encoder{}
	e.u8(uint8(KindLoadProject))
	e.str(path)
	return e.bytes()
}

func EncodeQuit() []byte {
	e := &encoder{}
	e.u8(uint8(KindQuit))
	return e.bytes()
}
