package npc

import (
	"testing"

	"github.com/halfgrove/tradewind/internal/clock"
)

func TestDirectoryFiltersByVenueAndBlock(t *testing.T) {
	d := NewDirectory([]*NPC{
		{
			ID: "npc_holt", Name: "Holt", Services: []string{ServiceTrade},
			Schedule: map[clock.TimeBlock]string{
				clock.BlockMorning: "docks",
				clock.BlockMidday:  "town",
			},
		},
		{
			ID: "npc_ivy", Name: "Ivy", Services: []string{ServiceGossip},
			Schedule: map[clock.TimeBlock]string{
				clock.BlockMorning: "docks",
			},
		},
	})

	morning := d.NPCsAt("docks", clock.BlockMorning)
	if len(morning) != 2 {
		t.Fatalf("docks morning = %d NPCs, want 2", len(morning))
	}
	if got := d.NPCsAt("docks", clock.BlockMidday); len(got) != 0 {
		t.Fatalf("docks midday = %d NPCs, want 0", len(got))
	}
	if got := d.NPCsAt("town", clock.BlockMidday); len(got) != 1 || got[0].Name != "Holt" {
		t.Fatalf("town midday = %v", got)
	}
	// Unscheduled blocks mean the NPC is off the board entirely.
	if got := d.NPCsAt("docks", clock.BlockNight); len(got) != 0 {
		t.Fatalf("docks night = %d NPCs, want 0", len(got))
	}
}

func TestCanProvideService(t *testing.T) {
	n := &NPC{Name: "Holt", Services: []string{ServiceTrade, ServiceLodge}}
	if !n.CanProvideService(ServiceTrade) || !n.CanProvideService(ServiceLodge) {
		t.Fatalf("listed services not reported")
	}
	if n.CanProvideService(ServiceGossip) {
		t.Fatalf("unlisted service reported")
	}
}
