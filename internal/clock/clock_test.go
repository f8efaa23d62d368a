package clock

import "testing"

func TestBlockForHour(t *testing.T) {
	cases := []struct {
		hour int
		want TimeBlock
	}{
		{0, BlockNight},
		{5, BlockNight},
		{6, BlockMorning},
		{9, BlockMorning},
		{10, BlockMidday},
		{13, BlockMidday},
		{14, BlockAfternoon},
		{17, BlockAfternoon},
		{18, BlockEvening},
		{21, BlockEvening},
		{22, BlockNight},
		{23, BlockNight},
	}
	for _, c := range cases {
		if got := BlockForHour(c.hour); got != c.want {
			t.Fatalf("BlockForHour(%d) = %v, want %v", c.hour, got, c.want)
		}
	}
}

func TestClockDerivedTime(t *testing.T) {
	c := &Clock{Tick: 8*TicksPerHour + 30}
	if got := c.Hour(); got != 8 {
		t.Fatalf("Hour() = %d, want 8", got)
	}
	if got := c.CurrentTimeBlock(); got != BlockMorning {
		t.Fatalf("block = %v, want Morning", got)
	}
	if got := c.SimTime(); got != "Day 1, 8:30 (Morning)" {
		t.Fatalf("SimTime() = %q", got)
	}

	// Hours wrap across day boundaries.
	c.Tick = TicksPerDay + 2*TicksPerHour
	if got := c.Hour(); got != 2 {
		t.Fatalf("wrapped Hour() = %d, want 2", got)
	}
	if got := c.SimTime(); got != "Day 2, 2:00 (Night)" {
		t.Fatalf("wrapped SimTime() = %q", got)
	}
}

func TestEngineFiresBoundaryCallbacks(t *testing.T) {
	clk := &Clock{}
	eng := &Engine{Clock: clk}

	hours, days := 0, 0
	var blocks []TimeBlock
	eng.OnHour = func(uint64) { hours++ }
	eng.OnDay = func(uint64) { days++ }
	eng.OnBlockChange = func(b TimeBlock) { blocks = append(blocks, b) }

	eng.Advance(TicksPerDay)

	if clk.Tick != TicksPerDay {
		t.Fatalf("tick = %d, want %d", clk.Tick, TicksPerDay)
	}
	if hours != 24 {
		t.Fatalf("hour callbacks = %d, want 24", hours)
	}
	if days != 1 {
		t.Fatalf("day callbacks = %d, want 1", days)
	}
	want := []TimeBlock{BlockMorning, BlockMidday, BlockAfternoon, BlockEvening, BlockNight}
	if len(blocks) != len(want) {
		t.Fatalf("block changes = %v, want %v", blocks, want)
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Fatalf("block change %d = %v, want %v", i, blocks[i], want[i])
		}
	}
}

func TestAdvanceHours(t *testing.T) {
	clk := &Clock{Tick: 10}
	eng := &Engine{Clock: clk}
	eng.AdvanceHours(2)
	if clk.Tick != 10+2*TicksPerHour {
		t.Fatalf("tick = %d, want %d", clk.Tick, 10+2*TicksPerHour)
	}
}

func TestEngineWithoutCallbacks(t *testing.T) {
	eng := &Engine{Clock: &Clock{}}
	eng.Advance(TicksPerDay) // Must not panic with nil callbacks
	if eng.Clock.Tick != TicksPerDay {
		t.Fatalf("tick = %d, want %d", eng.Clock.Tick, TicksPerDay)
	}
}
