// Package timeline materializes a decoded multi-track MIDI file into one
// chronologically ordered event stream with wall-clock timestamps.
package timeline

// TimeInfo is the timestamp attached to every emitted event. Depending on
// the run configuration it holds either the absolute position from the
// start of the file or the increment since the previous emitted event,
// never both.
type TimeInfo struct {
	Tick    uint64  `json:"tick"`
	Micros  uint64  `json:"micros"`
	Seconds float64 `json:"seconds"`
}

// Event is a single normalized output record, tagged by kind.
type Event struct {
	Kind string   `json:"event"` // "midi" or "meta"
	Time TimeInfo `json:"time"`
	Data any      `json:"data"`
}

// Event kinds
const (
	KindMidi = "midi"
	KindMeta = "meta"
)

// Channel-voice event types
const (
	TypeNoteOff           = "note_off"
	TypeNoteOn            = "note_on"
	TypeAftertouch        = "aftertouch"
	TypeController        = "controller"
	TypeProgramChange     = "program_change"
	TypeChannelAftertouch = "channel_aftertouch"
	TypePitchBend         = "pitch_bend"
)

// NoteEvent carries note-off, note-on and polyphonic aftertouch messages.
type NoteEvent struct {
	Type     string `json:"type"`
	Chan     uint8  `json:"chan"`
	Note     uint8  `json:"note"`
	Velocity uint8  `json:"velocity"`
}

// ControllerEvent is a control change message.
type ControllerEvent struct {
	Type  string `json:"type"`
	Chan  uint8  `json:"chan"`
	Ctrl  uint8  `json:"ctrl"`
	Value uint8  `json:"value"`
}

// ProgramChangeEvent is a program change message.
type ProgramChangeEvent struct {
	Type    string `json:"type"`
	Chan    uint8  `json:"chan"`
	Program uint8  `json:"program"`
}

// ChannelAftertouchEvent is a channel pressure message.
type ChannelAftertouchEvent struct {
	Type     string `json:"type"`
	Chan     uint8  `json:"chan"`
	Velocity uint8  `json:"velocity"`
}

// PitchBendEvent is a pitch bend message. BendBy is the raw 14-bit value.
type PitchBendEvent struct {
	Type   string `json:"type"`
	Chan   uint8  `json:"chan"`
	BendBy uint16 `json:"bend_by"`
}

// Meta event types
const (
	MetaTrackNumber    = "track_number"
	MetaText           = "text"
	MetaCopyright      = "copyright"
	MetaTrackName      = "track_name"
	MetaInstrumentName = "instrument_name"
	MetaLyric          = "lyric"
	MetaMarker         = "marker"
	MetaCuePoint       = "cue_point"
	MetaProgramName    = "program_name"
	MetaDeviceName     = "device_name"
	MetaMidiChannel    = "midi_channel"
	MetaMidiPort       = "midi_port"
	MetaEndOfTrack     = "end_of_track"
	MetaTempo          = "tempo"
	MetaTimeSignature  = "time_signature"
	MetaKeySignature   = "key_signature"
	MetaUnknown        = "unknown"
)

// MetaEvent is a meta message, tagged by subtype. Data holds the
// subtype-specific payload and is omitted for payload-free subtypes such
// as end_of_track.
type MetaEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ByteArray marshals raw byte payloads as JSON arrays of numbers instead
// of the base64 string encoding/json uses for []byte.
type ByteArray []byte

// MarshalJSON implements json.Marshaler.
func (b ByteArray) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendUint(out, v)
	}
	return append(out, ']'), nil
}

func appendUint(dst []byte, v uint8) []byte {
	if v >= 100 {
		dst = append(dst, '0'+v/100)
	}
	if v >= 10 {
		dst = append(dst, '0'+(v/10)%10)
	}
	return append(dst, '0'+v%10)
}

// TimeSignature is the payload of a time_signature meta event.
type TimeSignature struct {
	Numerator      uint8 `json:"numerator"`
	Denominator    uint8 `json:"denominator"` // as a power of two
	ClocksPerClick uint8 `json:"clocks_per_click"`
	Notated32nds   uint8 `json:"notated_32nds_per_quarter"`
}

// KeySignature is the payload of a key_signature meta event. Accidentals
// is negative for flats, positive for sharps.
type KeySignature struct {
	Accidentals int8 `json:"accidentals"`
	Minor       bool `json:"minor"`
}

// UnknownMeta is the payload of a meta event with an unrecognized type
// tag. The raw tag and bytes pass through unchanged; an unknown subtype
// is data, not an error.
type UnknownMeta struct {
	MetaType uint8     `json:"meta_type"`
	Bytes    ByteArray `json:"bytes"`
}
