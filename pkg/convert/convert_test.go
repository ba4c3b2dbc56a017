package convert

import (
	"bytes"
	"encoding/json"
	"testing"
)

// testMIDI is a minimal format-0 file: 96 ticks per quarter, one track
// with a note-on at tick 0 and a note-off at tick 96.
func testMIDI() []byte {
	return []byte{
		// MThd
		'M', 'T', 'h', 'd', 0x00, 0x00, 0x00, 0x06,
		0x00, 0x00, // format 0
		0x00, 0x01, // one track
		0x00, 0x60, // 96 ticks per quarter
		// MTrk
		'M', 'T', 'r', 'k', 0x00, 0x00, 0x00, 0x0C,
		0x00, 0x90, 0x3C, 0x64, // delta 0, note on C4
		0x60, 0x80, 0x3C, 0x00, // delta 96, note off C4
		0x00, 0xFF, 0x2F, 0x00, // delta 0, end of track
	}
}

func TestIsMIDI(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"midi file", []byte("MThd\x00\x00\x00\x06"), true},
		{"sysex dump", []byte{0xF0, 0x00, 0x20, 0x32, 0xF7}, false},
		{"short data", []byte{0x4D, 0x54}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMIDI(tt.data); got != tt.want {
				t.Errorf("IsMIDI() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	result, err := Convert(testMIDI(), "test.mid", Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if result.SourceFile != "test.mid" {
		t.Errorf("SourceFile = %q, want %q", result.SourceFile, "test.mid")
	}
	if result.EventsProcessed != 3 {
		t.Errorf("EventsProcessed = %d, want 3", result.EventsProcessed)
	}
	if result.EventsEmitted != 2 {
		t.Errorf("EventsEmitted = %d, want 2", result.EventsEmitted)
	}
	if result.EmittedMeta {
		t.Error("EmittedMeta should be false by default")
	}
	if len(result.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(result.Events))
	}

	// one quarter note at the default tempo
	if result.Events[0].Time.Tick != 0 || result.Events[0].Time.Micros != 0 {
		t.Errorf("event 0 time = %+v, want tick 0 micros 0", result.Events[0].Time)
	}
	if result.Events[1].Time.Tick != 96 || result.Events[1].Time.Micros != 500000 {
		t.Errorf("event 1 time = %+v, want tick 96 micros 500000", result.Events[1].Time)
	}
}

func TestConvertIncludeMeta(t *testing.T) {
	result, err := Convert(testMIDI(), "test.mid", Options{IncludeMeta: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	// end of track is a meta event and now visible
	if result.EventsEmitted != 3 {
		t.Errorf("EventsEmitted = %d, want 3", result.EventsEmitted)
	}
	if !result.EmittedMeta {
		t.Error("EmittedMeta should be true")
	}
}

func TestConvertRejectsNonMIDI(t *testing.T) {
	if _, err := Convert([]byte{0xF0, 0xF7}, "dump.syx", Options{}); err == nil {
		t.Error("Convert() expected error for non-MIDI data")
	}
}

func TestWriteJSON(t *testing.T) {
	result, err := Convert(testMIDI(), "test.mid", Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	var buf bytes.Buffer
	if err := result.WriteJSON(&buf, false); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"generated", "source_file", "events_processed", "events_emitted", "emitted_meta", "events"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("output missing %q field", key)
		}
	}

	events, ok := decoded["events"].([]any)
	if !ok || len(events) != 2 {
		t.Fatalf("events = %v, want two records", decoded["events"])
	}
	first, ok := events[0].(map[string]any)
	if !ok {
		t.Fatalf("event record is %T, want object", events[0])
	}
	if first["event"] != "midi" {
		t.Errorf("event tag = %v, want midi", first["event"])
	}
}

func TestWriteJSONPretty(t *testing.T) {
	result, err := Convert(testMIDI(), "test.mid", Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	var compact, pretty bytes.Buffer
	if err := result.WriteJSON(&compact, false); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if err := result.WriteJSON(&pretty, true); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if pretty.Len() <= compact.Len() {
		t.Error("pretty output should be longer than compact output")
	}
}
