package timeline

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// Layout describes how a file's tracks relate in time.
type Layout int

const (
	// LayoutSingle uses only the first track; any others are ignored.
	LayoutSingle Layout = iota
	// LayoutSimultaneous plays all tracks against a shared tick-zero
	// start (SMF format 1).
	LayoutSimultaneous
	// LayoutSequential plays tracks one after another in listed order
	// (SMF format 2).
	LayoutSequential
)

// MergedEvent is one event of the merged global sequence. Delta is
// relative to the previous merged event, not to the previous event of
// the track it came from.
type MergedEvent struct {
	Delta   uint64
	Track   int
	Message smf.Message
}

// merger is a pull-based view over the decoded tracks. Each call yields
// the next event of the merged sequence until the input is drained.
type merger interface {
	next() (MergedEvent, bool)
}

// newMerger selects the concrete merge strategy once, at construction.
// Each layout gets its own iterator type so the per-event path carries
// no dynamic dispatch beyond this single interface call.
func newMerger(layout Layout, tracks []smf.Track) merger {
	switch layout {
	case LayoutSimultaneous:
		return newParallelMerger(tracks)
	case LayoutSequential:
		return &sequentialMerger{tracks: tracks}
	default:
		if len(tracks) == 0 {
			return &singleMerger{}
		}
		return &singleMerger{track: tracks[0]}
	}
}

// singleMerger walks the representative track; deltas pass through
// unchanged.
type singleMerger struct {
	track smf.Track
	pos   int
}

func (m *singleMerger) next() (MergedEvent, bool) {
	if m.pos >= len(m.track) {
		return MergedEvent{}, false
	}
	ev := m.track[m.pos]
	m.pos++
	return MergedEvent{Delta: uint64(ev.Delta), Message: ev.Message}, true
}

// sequentialMerger concatenates track sequences in listed order. Per-track
// deltas are kept as is: by convention the first event of a later track
// carries its delta from the end of the previous track.
type sequentialMerger struct {
	tracks []smf.Track
	track  int
	pos    int
}

func (m *sequentialMerger) next() (MergedEvent, bool) {
	for m.track < len(m.tracks) && m.pos >= len(m.tracks[m.track]) {
		m.track++
		m.pos = 0
	}
	if m.track >= len(m.tracks) {
		return MergedEvent{}, false
	}
	ev := m.tracks[m.track][m.pos]
	m.pos++
	return MergedEvent{Delta: uint64(ev.Delta), Track: m.track, Message: ev.Message}, true
}

// parallelMerger performs a stable k-way merge across all tracks ordered
// by absolute tick. Each track keeps a cursor and the absolute tick of
// its next pending event; on ties the earlier-listed track wins, which
// also preserves the original relative order within each track. Output
// deltas are recomputed against the previous merged event, with a
// virtual start-of-file sentinel at tick zero.
type parallelMerger struct {
	tracks   []smf.Track
	pos      []int
	nextTick []uint64
	lastTick uint64
}

func newParallelMerger(tracks []smf.Track) *parallelMerger {
	m := &parallelMerger{
		tracks:   tracks,
		pos:      make([]int, len(tracks)),
		nextTick: make([]uint64, len(tracks)),
	}
	for i, t := range tracks {
		if len(t) > 0 {
			m.nextTick[i] = uint64(t[0].Delta)
		}
	}
	return m
}

func (m *parallelMerger) next() (MergedEvent, bool) {
	earliest := -1
	var earliestTick uint64
	for i, t := range m.tracks {
		if m.pos[i] >= len(t) {
			continue
		}
		if earliest < 0 || m.nextTick[i] < earliestTick {
			earliest = i
			earliestTick = m.nextTick[i]
		}
	}
	if earliest < 0 {
		return MergedEvent{}, false
	}

	t := m.tracks[earliest]
	ev := t[m.pos[earliest]]
	m.pos[earliest]++
	if m.pos[earliest] < len(t) {
		m.nextTick[earliest] = earliestTick + uint64(t[m.pos[earliest]].Delta)
	}

	delta := earliestTick - m.lastTick
	m.lastTick = earliestTick
	return MergedEvent{Delta: delta, Track: earliest, Message: ev.Message}, true
}
