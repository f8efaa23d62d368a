// Package clock provides simulated time: the tick counter, the five
// time-of-day blocks that gate trader availability, and the session engine
// that advances them.
package clock

import "fmt"

// Tick granularity: one tick is one sim-minute.
const (
	TicksPerHour = 60
	HoursPerDay  = 24
	TicksPerDay  = TicksPerHour * HoursPerDay
)

// TimeBlock is a segment of the simulated day.
type TimeBlock uint8

const (
	BlockMorning TimeBlock = iota
	BlockMidday
	BlockAfternoon
	BlockEvening
	BlockNight
)

// BlockOrder is the fixed scan order used when looking for the next
// time block at which a venue opens.
var BlockOrder = [5]TimeBlock{
	BlockMorning,
	BlockMidday,
	BlockAfternoon,
	BlockEvening,
	BlockNight,
}

var blockNames = [5]string{"Morning", "Midday", "Afternoon", "Evening", "Night"}

func (b TimeBlock) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return "Unknown"
}

// BlockForHour maps an hour of the day (0–23) to its time block.
func BlockForHour(hour int) TimeBlock {
	switch {
	case hour >= 6 && hour < 10:
		return BlockMorning
	case hour >= 10 && hour < 14:
		return BlockMidday
	case hour >= 14 && hour < 18:
		return BlockAfternoon
	case hour >= 18 && hour < 22:
		return BlockEvening
	default:
		return BlockNight
	}
}

// Clock tracks simulated time as a monotonic tick counter.
type Clock struct {
	Tick uint64
}

// Now returns the current tick.
func (c *Clock) Now() uint64 {
	return c.Tick
}

// Hour returns the current hour of the day (0–23).
func (c *Clock) Hour() int {
	return int(c.Tick / TicksPerHour % HoursPerDay)
}

// CurrentTimeBlock returns the time block for the current tick.
func (c *Clock) CurrentTimeBlock() TimeBlock {
	return BlockForHour(c.Hour())
}

// SimTime returns a human-readable simulation time string.
func (c *Clock) SimTime() string {
	minutes := c.Tick % 60
	hours := c.Tick / 60 % 24
	days := c.Tick/TicksPerDay + 1
	return fmt.Sprintf("Day %d, %d:%02d (%s)", days, hours, minutes, c.CurrentTimeBlock())
}

// Engine advances the clock and fires callbacks on time boundaries.
// Stepping is explicit and deterministic: the game loop calls Advance
// in response to player actions or scene transitions.
type Engine struct {
	Clock *Clock

	// Callbacks, populated during setup.
	OnHour        func(tick uint64)     // Every 60 ticks
	OnBlockChange func(block TimeBlock) // When the time block rolls over
	OnDay         func(tick uint64)     // Every 1440 ticks
}

// Advance moves the clock forward by the given number of ticks, firing
// callbacks as boundaries are crossed.
func (e *Engine) Advance(ticks uint64) {
	for i := uint64(0); i < ticks; i++ {
		before := e.Clock.CurrentTimeBlock()
		e.Clock.Tick++

		if e.Clock.Tick%TicksPerHour == 0 && e.OnHour != nil {
			e.OnHour(e.Clock.Tick)
		}
		if after := e.Clock.CurrentTimeBlock(); after != before && e.OnBlockChange != nil {
			e.OnBlockChange(after)
		}
		if e.Clock.Tick%TicksPerDay == 0 && e.OnDay != nil {
			e.OnDay(e.Clock.Tick)
		}
	}
}

// AdvanceHours moves the clock forward by whole hours.
func (e *Engine) AdvanceHours(hours int) {
	e.Advance(uint64(hours) * TicksPerHour)
}
