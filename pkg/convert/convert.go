// Package convert reads MIDI files, drains the timeline stream and
// serializes the result as JSON.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/midi2json/pkg/timeline"
)

// Options configures one conversion run.
type Options struct {
	IncludeMeta bool // include meta events in the output
	DeltaTimes  bool // report delta instead of absolute timestamps
	Pretty      bool // indent the JSON output
}

// Result is the serialization envelope for one converted file.
type Result struct {
	Generated       string           `json:"generated"`
	SourceFile      string           `json:"source_file"`
	EventsProcessed int              `json:"events_processed"`
	EventsEmitted   int              `json:"events_emitted"`
	EmittedMeta     bool             `json:"emitted_meta"`
	Events          []timeline.Event `json:"events"`
}

// IsMIDI reports whether data begins with the standard MIDI file header
// chunk signature.
func IsMIDI(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "MThd"
}

// Convert parses MIDI data and drains it into a Result. sourceFile is
// recorded in the envelope as provenance only; the data is already in
// memory.
func Convert(data []byte, sourceFile string, opts Options) (*Result, error) {
	if !IsMIDI(data) {
		return nil, fmt.Errorf("not a MIDI file: missing MThd header")
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI file: %w", err)
	}

	stream, err := timeline.New(s, timeline.Options{
		IncludeMeta: opts.IncludeMeta,
		DeltaTimes:  opts.DeltaTimes,
	})
	if err != nil {
		return nil, err
	}

	events := stream.Drain()
	if events == nil {
		events = []timeline.Event{}
	}

	return &Result{
		Generated:       time.Now().Format(time.RFC3339),
		SourceFile:      sourceFile,
		EventsProcessed: stream.Processed(),
		EventsEmitted:   stream.Emitted(),
		EmittedMeta:     opts.IncludeMeta,
		Events:          events,
	}, nil
}

// ConvertFile converts inputPath and writes the JSON result to
// outputPath, or to stdout when outputPath is empty.
func ConvertFile(inputPath, outputPath string, opts Options) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read midi data into memory: %w", err)
	}

	result, err := Convert(data, inputPath, opts)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("could not create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	return result.WriteJSON(out, opts.Pretty)
}

// WriteJSON serializes the result to w, indented when pretty is set.
func (r *Result) WriteJSON(w io.Writer, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	return nil
}
