package timeline

import (
	"fmt"
)

// MicrosPerSecond converts between microseconds and seconds.
const MicrosPerSecond = 1_000_000

// DefaultMicrosPerQuarter is the tempo assumed until a tempo meta event
// is observed (120 BPM).
const DefaultMicrosPerQuarter = 500_000

// Clock converts tick deltas into wall-clock durations. The rate is kept
// as a rational number (rateNum micros per rateDen ticks) so that exact
// tempos stay exact: 480 ticks at 500000 µs/quarter with 480 ticks per
// quarter is exactly 500000 µs, with no per-tick truncation drift.
//
// Both cumulative counters are monotonically non-decreasing for the
// lifetime of a conversion run.
type Clock struct {
	ticks  uint64
	micros uint64

	rateNum  uint64
	rateDen  uint64
	timecode bool
}

// TickInfo is one reading of the clock, taken once per timed event.
type TickInfo struct {
	DeltaTicks  uint64
	DeltaMicros uint64
	AbsTicks    uint64
	AbsMicros   uint64
}

// NewMetricalClock builds a clock for metrical timing, where a tick is a
// fixed fraction of a quarter note and the quarter-note duration can
// change via tempo events. The tempo starts at DefaultMicrosPerQuarter.
func NewMetricalClock(ticksPerQuarter uint16) (*Clock, error) {
	if ticksPerQuarter == 0 {
		return nil, fmt.Errorf("invalid clock configuration: zero ticks per quarter note")
	}
	return &Clock{
		rateNum: DefaultMicrosPerQuarter,
		rateDen: uint64(ticksPerQuarter),
	}, nil
}

// NewTimecodeClock builds a clock for SMPTE timing, where the tick
// duration is fixed for the whole file and derived once from the frame
// rate and ticks per frame. Tempo events never change it.
func NewTimecodeClock(framesPerSecond, ticksPerFrame uint8) (*Clock, error) {
	if framesPerSecond == 0 || ticksPerFrame == 0 {
		return nil, fmt.Errorf("invalid clock configuration: zero frame rate or ticks per frame")
	}
	return &Clock{
		rateNum:  MicrosPerSecond,
		rateDen:  uint64(framesPerSecond) * uint64(ticksPerFrame),
		timecode: true,
	}, nil
}

// NextTick advances the clock by delta ticks and returns both the
// incremental and the cumulative reading. The microsecond delta is
// rounded half-up.
func (c *Clock) NextTick(delta uint64) TickInfo {
	dm := (delta*c.rateNum + c.rateDen/2) / c.rateDen
	c.ticks += delta
	c.micros += dm
	return TickInfo{
		DeltaTicks:  delta,
		DeltaMicros: dm,
		AbsTicks:    c.ticks,
		AbsMicros:   c.micros,
	}
}

// Retime advances the clock by delta ticks under the tempo in effect
// when the tempo event occurs, then switches to the new tempo for all
// subsequent ticks. The order matters: applying the new tempo first
// would misplace the tempo event itself and shift every timestamp after
// it.
func (c *Clock) Retime(delta uint64, microsPerQuarter uint32) TickInfo {
	adv := c.NextTick(delta)
	c.SetTempo(microsPerQuarter)
	return adv
}

// SetTempo replaces the quarter-note duration. It is a no-op under
// timecode timing, where the tick length is fixed at construction.
func (c *Clock) SetTempo(microsPerQuarter uint32) {
	if c.timecode {
		return
	}
	c.rateNum = uint64(microsPerQuarter)
}

// Seconds reports a microsecond count as seconds, rounded half-up at
// microsecond precision. The whole and fractional parts are converted
// separately so large counts keep their low digits.
func Seconds(micros uint64) float64 {
	return float64(micros/MicrosPerSecond) + float64(micros%MicrosPerSecond)/MicrosPerSecond
}
