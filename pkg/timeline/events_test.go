package timeline

import (
	"encoding/json"
	"testing"
)

func TestByteArrayMarshalsAsNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   ByteArray
		want string
	}{
		{"empty", ByteArray{}, "[]"},
		{"single", ByteArray{7}, "[7]"},
		{"mixed widths", ByteArray{0, 10, 99, 100, 255}, "[0,10,99,100,255]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Marshal() = %s, want %s", out, tt.want)
			}
		})
	}
}

func TestEventJSONShape(t *testing.T) {
	ev := Event{
		Kind: KindMidi,
		Time: TimeInfo{Tick: 96, Micros: 500000, Seconds: 0.5},
		Data: NoteEvent{Type: TypeNoteOn, Chan: 3, Note: 60, Velocity: 100},
	}

	out, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		Event string `json:"event"`
		Time  struct {
			Tick    uint64  `json:"tick"`
			Micros  uint64  `json:"micros"`
			Seconds float64 `json:"seconds"`
		} `json:"time"`
		Data struct {
			Type     string `json:"type"`
			Chan     uint8  `json:"chan"`
			Note     uint8  `json:"note"`
			Velocity uint8  `json:"velocity"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Event != "midi" {
		t.Errorf("event tag = %q, want %q", decoded.Event, "midi")
	}
	if decoded.Time.Tick != 96 || decoded.Time.Micros != 500000 || decoded.Time.Seconds != 0.5 {
		t.Errorf("time = %+v, want {96 500000 0.5}", decoded.Time)
	}
	if decoded.Data.Type != "note_on" || decoded.Data.Note != 60 {
		t.Errorf("data = %+v, want note_on note 60", decoded.Data)
	}
}

func TestMetaEventJSONOmitsEmptyData(t *testing.T) {
	out, err := json.Marshal(MetaEvent{Type: MetaEndOfTrack})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"type":"end_of_track"}` {
		t.Errorf("Marshal() = %s, want data omitted", out)
	}
}

func TestMetaEventTranslation(t *testing.T) {
	tests := []struct {
		name     string
		typ      byte
		data     []byte
		wantType string
	}{
		{"track name", 0x03, []byte("lead"), MetaTrackName},
		{"instrument name", 0x04, []byte("bass"), MetaInstrumentName},
		{"lyric", 0x05, []byte("la"), MetaLyric},
		{"marker", 0x06, []byte("verse"), MetaMarker},
		{"channel prefix", 0x20, []byte{9}, MetaMidiChannel},
		{"port", 0x21, []byte{1}, MetaMidiPort},
		{"key signature", 0x59, []byte{0xFE, 0x01}, MetaKeySignature},
		{"unrecognized", 0x66, []byte{1, 2}, MetaUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := metaEvent(tt.typ, tt.data)
			if ev.Type != tt.wantType {
				t.Errorf("type = %q, want %q", ev.Type, tt.wantType)
			}
		})
	}
}

func TestKeySignaturePayload(t *testing.T) {
	ev := metaEvent(0x59, []byte{0xFE, 0x01}) // two flats, minor
	ks, ok := ev.Data.(KeySignature)
	if !ok {
		t.Fatalf("payload is %T, want KeySignature", ev.Data)
	}
	if ks.Accidentals != -2 || !ks.Minor {
		t.Errorf("key signature = %+v, want accidentals -2 minor true", ks)
	}
}

func TestTimeSignaturePayload(t *testing.T) {
	ev := metaEvent(0x58, []byte{6, 3, 24, 8}) // 6/8
	ts, ok := ev.Data.(TimeSignature)
	if !ok {
		t.Fatalf("payload is %T, want TimeSignature", ev.Data)
	}
	if ts.Numerator != 6 || ts.Denominator != 3 {
		t.Errorf("time signature = %+v, want 6 over 2^3", ts)
	}
}
