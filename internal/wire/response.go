package wire

import "fmt"

// ResponseKind tags which notification variant a payload decodes to.
type ResponseKind uint8

const (
	KindAcknowledge ResponseKind = iota
	KindParamList
	KindClipInfo
	KindClipWaveform
	KindTrackLevels
	KindLog
	KindClearProject
)

// ParamInfo describes one plugin parameter inside a ParamList notification.
type ParamInfo struct {
	ID      uint32
	Name    string
	Default float32
}

// TrackLevel is one track's entry inside a TrackLevels notification.
type TrackLevel struct {
	Track int32
	PeakL float32
	PeakR float32
}

func encodeAcknowledge(cmdName string, success bool) []byte {
	e := &encoder{}
	e.u8(uint8(KindAcknowledge))
	e.str(cmdName)
	e.boolean(success)
	return e.bytes()
}

func encodeParamList(track, position int32, pluginName string, isInstrument bool, params []ParamInfo) []byte {
	e := &encoder{}
	e.u8(uint8(KindParamList))
	e.i32(track)
	e.i32(position)
	e.str(pluginName)
	e.boolean(isInstrument)
	e.u32(uint32(len(params)))
	for _, p := range params {
		e.u32(p.ID)
		e.str(p.Name)
		e.f32(p.Default)
	}
	return e.bytes()
}

func encodeClipInfo(track, slot int32, displayName string) []byte {
	e := &encoder{}
	e.u8(uint8(KindClipInfo))
	e.i32(track)
	e.i32(slot)
	e.str(displayName)
	return e.bytes()
}

func encodeClipWaveform(track, slot int32, peaks [256]float32) []byte {
	e := &encoder{}
	e.u8(uint8(KindClipWaveform))
	e.i32(track)
	e.i32(slot)
	for _, p := range peaks {
		e.f32(p)
	}
	return e.bytes()
}

func encodeTrackLevels(entries []TrackLevel) []byte {
	e := &encoder{}
	e.u8(uint8(KindTrackLevels))
	e.u32(uint32(len(entries)))
	for _, t := range entries {
		e.i32(t.Track)
		e.f32(t.PeakL)
		e.f32(t.PeakR)
	}
	return e.bytes()
}

func encodeLog(msg string) []byte {
	e := &encoder{}
	e.u8(uint8(KindLog))
	e.str(msg)
	return e.bytes()
}

func encodeClearProject() []byte {
	e := &encoder{}
	e.u8(uint8(KindClearProject))
	return e.bytes()
}

// DecodedResponse is the decoded form of one outbound notification, used by
// test clients and the CLI's own response reader.
type DecodedResponse struct {
	Kind ResponseKind

	CmdName      string
	Success      bool
	Track        int32
	Position     int32
	PluginName   string
	IsInstrument bool
	Params       []ParamInfo
	Slot         int32
	DisplayName  string
	Peaks        [256]float32
	Levels       []TrackLevel
	Msg          string
}

// DecodeResponse parses one frame payload into a DecodedResponse.
func DecodeResponse(payload []byte) (DecodedResponse, error) {
	d := newDecoder(payload)
	kind := ResponseKind(d.u8())

	var resp DecodedResponse
	resp.Kind = kind

	switch kind {
	case KindAcknowledge:
		resp.CmdName = d.str()
		resp.Success = d.boolean()
	case KindParamList:
		resp.Track = d.i32()
		resp.Position = d.i32()
		resp.PluginName = d.str()
		resp.IsInstrument = d.boolean()
		n := d.u32()
		resp.Params = make([]ParamInfo, n)
		for i := range resp.Params {
			resp.Params[i] = ParamInfo{ID: d.u32(), Name: d.str(), Default: d.f32()}
		}
	case KindClipInfo:
		resp.Track = d.i32()
		resp.Slot = d.i32()
		resp.DisplayName = d.str()
	case KindClipWaveform:
		resp.Track = d.i32()
		resp.Slot = d.i32()
		for i := range resp.Peaks {
			resp.Peaks[i] = d.f32()
		}
	case KindTrackLevels:
		n := d.u32()
		resp.Levels = make([]TrackLevel, n)
		for i := range resp.Levels {
			resp.Levels[i] = TrackLevel{Track: d.i32(), PeakL: d.f32(), PeakR: d.f32()}
		}
	case KindLog:
		resp.Msg = d.str()
	case KindClearProject:
		// no fields
	default:
		return DecodedResponse{}, fmt.Errorf("wire: unknown response kind %d", kind)
	}

	if err := d.done(); err != nil {
		return DecodedResponse{}, err
	}
	return resp, nil
}
