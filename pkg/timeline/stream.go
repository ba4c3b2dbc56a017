package timeline

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Options is the run-wide configuration for one conversion pass.
type Options struct {
	// IncludeMeta emits meta events in the output. Off by default; a
	// tempo meta event still updates the clock either way.
	IncludeMeta bool
	// DeltaTimes reports timestamps as the increment since the previous
	// emitted event instead of the absolute position from start.
	DeltaTimes bool
}

// Stream pulls the merged event sequence, classifies each event, times
// the ones that are emitted and folds the tick deltas of dropped events
// into the next timed event so no tick distance is lost.
//
// A Stream is single-use and not safe for concurrent use; it owns its
// clock and pending-delta state for exactly one pass over one file.
type Stream struct {
	opts   Options
	clock  *Clock
	events merger

	// pending accumulates the deltas of dropped events until the next
	// event that takes a timestamp.
	pending uint64

	processed int
	emitted   int
	trackDone []bool
}

// New builds a Stream for a decoded file. The track layout follows the
// header format (0 single, 1 simultaneous, 2 sequential) and the clock
// follows the header's time format. The only failure is a degenerate
// clock configuration, which aborts before any event is processed.
func New(s *smf.SMF, opts Options) (*Stream, error) {
	var layout Layout
	switch s.Format() {
	case 1:
		layout = LayoutSimultaneous
	case 2:
		layout = LayoutSequential
	default:
		layout = LayoutSingle
	}
	return NewFromTracks(layout, s.TimeFormat, s.Tracks, opts)
}

// NewFromTracks builds a Stream from an explicit layout, time format and
// track list.
func NewFromTracks(layout Layout, tf smf.TimeFormat, tracks []smf.Track, opts Options) (*Stream, error) {
	clock, err := newClock(tf)
	if err != nil {
		return nil, err
	}
	return &Stream{
		opts:      opts,
		clock:     clock,
		events:    newMerger(layout, tracks),
		trackDone: make([]bool, len(tracks)),
	}, nil
}

func newClock(tf smf.TimeFormat) (*Clock, error) {
	switch t := tf.(type) {
	case smf.MetricTicks:
		return NewMetricalClock(t.Resolution())
	case smf.TimeCode:
		return NewTimecodeClock(t.FramesPerSecond, t.SubFrames)
	default:
		return nil, fmt.Errorf("invalid clock configuration: unsupported time format %v", tf)
	}
}

// Next returns the next emitted event. It reports false once the merged
// sequence is exhausted. Dropped events are consumed silently; their
// deltas carry forward into the next timestamp.
func (s *Stream) Next() (Event, bool) {
	for {
		ev, ok := s.events.next()
		if !ok {
			return Event{}, false
		}
		s.processed++

		out, ok := s.dispatch(ev)
		if !ok {
			continue
		}
		s.emitted++
		return out, true
	}
}

// Drain consumes the remaining stream and returns every emitted event.
func (s *Stream) Drain() []Event {
	var out []Event
	for {
		ev, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Processed reports how many events have been pulled from the merged
// sequence so far.
func (s *Stream) Processed() int { return s.processed }

// Emitted reports how many events have been emitted so far.
func (s *Stream) Emitted() int { return s.emitted }

func (s *Stream) dispatch(ev MergedEvent) (Event, bool) {
	switch classify(ev.Message) {
	case kindChannel:
		data, ok := channelEvent(ev.Message)
		if !ok {
			return s.skip(ev.Delta)
		}
		return Event{Kind: KindMidi, Time: s.timeInfo(ev.Delta), Data: data}, true

	case kindMeta:
		return s.dispatchMeta(ev)

	default:
		// sysex and escape payloads are never timed individually
		return s.skip(ev.Delta)
	}
}

func (s *Stream) dispatchMeta(ev MergedEvent) (Event, bool) {
	typ, data := metaPayload(ev.Message)
	switch typ {
	case metaTempo:
		// Tempo always drives the clock, visible in the output or not.
		// The event's own position is timed under the tempo in effect
		// when it occurs.
		mpq, ok := tempoMicros(data)
		if !ok {
			return s.skip(ev.Delta)
		}
		info := s.clock.Retime(s.pending+ev.Delta, mpq)
		s.pending = 0
		if !s.opts.IncludeMeta {
			return Event{}, false
		}
		return Event{Kind: KindMeta, Time: s.render(info), Data: MetaEvent{Type: MetaTempo, Data: mpq}}, true

	case metaSMPTEOffset, metaSequencerSpec:
		// always dropped, regardless of IncludeMeta
		return s.skip(ev.Delta)

	case metaEndOfTrack:
		// Ends only the sub-sequence of its own track; the merged
		// stream keeps draining the remaining tracks.
		if ev.Track < len(s.trackDone) {
			s.trackDone[ev.Track] = true
		}
		if !s.opts.IncludeMeta {
			return s.skip(ev.Delta)
		}
		return Event{Kind: KindMeta, Time: s.timeInfo(ev.Delta), Data: MetaEvent{Type: MetaEndOfTrack}}, true

	default:
		if !s.opts.IncludeMeta {
			return s.skip(ev.Delta)
		}
		return Event{Kind: KindMeta, Time: s.timeInfo(ev.Delta), Data: metaEvent(typ, data)}, true
	}
}

// skip folds a dropped event's delta into the pending counter without
// touching the clock.
func (s *Stream) skip(delta uint64) (Event, bool) {
	s.pending += delta
	return Event{}, false
}

// timeInfo advances the clock by the pending plus current delta and
// renders the reading per the run configuration.
func (s *Stream) timeInfo(delta uint64) TimeInfo {
	info := s.clock.NextTick(s.pending + delta)
	s.pending = 0
	return s.render(info)
}

func (s *Stream) render(info TickInfo) TimeInfo {
	if s.opts.DeltaTimes {
		return TimeInfo{
			Tick:    info.DeltaTicks,
			Micros:  info.DeltaMicros,
			Seconds: Seconds(info.DeltaMicros),
		}
	}
	return TimeInfo{
		Tick:    info.AbsTicks,
		Micros:  info.AbsMicros,
		Seconds: Seconds(info.AbsMicros),
	}
}
