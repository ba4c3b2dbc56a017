package timeline

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// Status bytes
const (
	statusNoteOff           = 0x80
	statusNoteOn            = 0x90
	statusAftertouch        = 0xA0
	statusController        = 0xB0
	statusProgramChange     = 0xC0
	statusChannelAftertouch = 0xD0
	statusPitchBend         = 0xE0
	statusSysEx             = 0xF0
	statusEscape            = 0xF7
	statusMeta              = 0xFF
)

// Meta type bytes
const (
	metaTrackNumber    = 0x00
	metaText           = 0x01
	metaCopyright      = 0x02
	metaTrackName      = 0x03
	metaInstrumentName = 0x04
	metaLyric          = 0x05
	metaMarker         = 0x06
	metaCuePoint       = 0x07
	metaProgramName    = 0x08
	metaDeviceName     = 0x09
	metaMidiChannel    = 0x20
	metaMidiPort       = 0x21
	metaEndOfTrack     = 0x2F
	metaTempo          = 0x51
	metaSMPTEOffset    = 0x54
	metaTimeSignature  = 0x58
	metaKeySignature   = 0x59
	metaSequencerSpec  = 0x7F
)

// messageKind is the coarse classification of a decoded track message.
type messageKind int

const (
	kindChannel messageKind = iota
	kindMeta
	kindSysEx
	kindEscape
)

func classify(msg smf.Message) messageKind {
	if len(msg) == 0 {
		return kindEscape
	}
	switch msg[0] {
	case statusMeta:
		return kindMeta
	case statusSysEx:
		return kindSysEx
	case statusEscape:
		return kindEscape
	default:
		return kindChannel
	}
}

// channelEvent translates a channel-voice message byte by byte, the
// status high nibble selecting the variant and the low nibble carrying
// the channel. It reports false for a message too short or outside the
// channel-voice status range.
func channelEvent(msg smf.Message) (any, bool) {
	if len(msg) < 2 {
		return nil, false
	}
	ch := msg[0] & 0x0F
	switch msg[0] & 0xF0 {
	case statusNoteOff:
		if len(msg) < 3 {
			return nil, false
		}
		return NoteEvent{Type: TypeNoteOff, Chan: ch, Note: msg[1], Velocity: msg[2]}, true
	case statusNoteOn:
		if len(msg) < 3 {
			return nil, false
		}
		return NoteEvent{Type: TypeNoteOn, Chan: ch, Note: msg[1], Velocity: msg[2]}, true
	case statusAftertouch:
		if len(msg) < 3 {
			return nil, false
		}
		return NoteEvent{Type: TypeAftertouch, Chan: ch, Note: msg[1], Velocity: msg[2]}, true
	case statusController:
		if len(msg) < 3 {
			return nil, false
		}
		return ControllerEvent{Type: TypeController, Chan: ch, Ctrl: msg[1], Value: msg[2]}, true
	case statusProgramChange:
		return ProgramChangeEvent{Type: TypeProgramChange, Chan: ch, Program: msg[1]}, true
	case statusChannelAftertouch:
		return ChannelAftertouchEvent{Type: TypeChannelAftertouch, Chan: ch, Velocity: msg[1]}, true
	case statusPitchBend:
		if len(msg) < 3 {
			return nil, false
		}
		// 14-bit value, LSB first
		bend := uint16(msg[1]&0x7F) | uint16(msg[2]&0x7F)<<7
		return PitchBendEvent{Type: TypePitchBend, Chan: ch, BendBy: bend}, true
	}
	return nil, false
}

// metaPayload splits a meta message (FF <type> <varlen> <data...>) into
// its type byte and payload.
func metaPayload(msg smf.Message) (byte, []byte) {
	if len(msg) < 2 {
		return 0, nil
	}
	typ := msg[1]
	// variable-length payload size
	i := 2
	length := 0
	for i < len(msg) {
		b := msg[i]
		i++
		length = length<<7 | int(b&0x7F)
		if b < 0x80 {
			break
		}
	}
	if i+length > len(msg) {
		length = len(msg) - i
	}
	return typ, msg[i : i+length]
}

// tempoMicros reads the 24-bit microseconds-per-quarter-note payload of
// a tempo meta event.
func tempoMicros(data []byte) (uint32, bool) {
	if len(data) < 3 {
		return 0, false
	}
	return uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2]), true
}

// metaEvent translates a meta payload into its output variant. Unknown
// type tags pass through as data, never as an error.
func metaEvent(typ byte, data []byte) MetaEvent {
	switch typ {
	case metaTrackNumber:
		if len(data) >= 2 {
			n := uint16(data[0])<<8 | uint16(data[1])
			return MetaEvent{Type: MetaTrackNumber, Data: n}
		}
		return MetaEvent{Type: MetaTrackNumber}
	case metaText:
		return MetaEvent{Type: MetaText, Data: ByteArray(data)}
	case metaCopyright:
		return MetaEvent{Type: MetaCopyright, Data: ByteArray(data)}
	case metaTrackName:
		return MetaEvent{Type: MetaTrackName, Data: ByteArray(data)}
	case metaInstrumentName:
		return MetaEvent{Type: MetaInstrumentName, Data: ByteArray(data)}
	case metaLyric:
		return MetaEvent{Type: MetaLyric, Data: ByteArray(data)}
	case metaMarker:
		return MetaEvent{Type: MetaMarker, Data: ByteArray(data)}
	case metaCuePoint:
		return MetaEvent{Type: MetaCuePoint, Data: ByteArray(data)}
	case metaProgramName:
		return MetaEvent{Type: MetaProgramName, Data: ByteArray(data)}
	case metaDeviceName:
		return MetaEvent{Type: MetaDeviceName, Data: ByteArray(data)}
	case metaMidiChannel:
		if len(data) >= 1 {
			return MetaEvent{Type: MetaMidiChannel, Data: data[0]}
		}
		return MetaEvent{Type: MetaMidiChannel}
	case metaMidiPort:
		if len(data) >= 1 {
			return MetaEvent{Type: MetaMidiPort, Data: data[0]}
		}
		return MetaEvent{Type: MetaMidiPort}
	case metaEndOfTrack:
		return MetaEvent{Type: MetaEndOfTrack}
	case metaTempo:
		mpq, _ := tempoMicros(data)
		return MetaEvent{Type: MetaTempo, Data: mpq}
	case metaTimeSignature:
		if len(data) >= 4 {
			return MetaEvent{Type: MetaTimeSignature, Data: TimeSignature{
				Numerator:      data[0],
				Denominator:    data[1],
				ClocksPerClick: data[2],
				Notated32nds:   data[3],
			}}
		}
		return MetaEvent{Type: MetaTimeSignature}
	case metaKeySignature:
		if len(data) >= 2 {
			return MetaEvent{Type: MetaKeySignature, Data: KeySignature{
				Accidentals: int8(data[0]),
				Minor:       data[1] != 0,
			}}
		}
		return MetaEvent{Type: MetaKeySignature}
	default:
		return MetaEvent{Type: MetaUnknown, Data: UnknownMeta{MetaType: typ, Bytes: ByteArray(data)}}
	}
}
