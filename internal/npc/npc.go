// Package npc provides the trader directory: which NPCs are at which venue
// during which time block, and what services they can provide. The market
// engine consults it to decide whether a venue is open for trade.
package npc

import "github.com/halfgrove/tradewind/internal/clock"

// Service names an NPC capability.
const (
	ServiceTrade  = "trade"
	ServiceGossip = "gossip"
	ServiceLodge  = "lodging"
)

// NPC is a non-player character with a daily schedule.
type NPC struct {
	ID       string
	Name     string
	Services []string
	// Schedule maps each time block to the venue the NPC occupies then.
	// Absent blocks mean the NPC is off the board (asleep, travelling).
	Schedule map[clock.TimeBlock]string
}

// TraderName returns the NPC's display name.
func (n *NPC) TraderName() string { return n.Name }

// CanProvideService reports whether the NPC offers the named service.
func (n *NPC) CanProvideService(service string) bool {
	for _, s := range n.Services {
		if s == service {
			return true
		}
	}
	return false
}

// At reports whether the NPC is present at the venue during the block.
func (n *NPC) At(venueID string, block clock.TimeBlock) bool {
	return n.Schedule[block] == venueID
}

// Directory holds every NPC for the session.
type Directory struct {
	npcs []*NPC
}

// NewDirectory builds a directory from a fixed NPC list.
func NewDirectory(npcs []*NPC) *Directory {
	return &Directory{npcs: npcs}
}

// NPCsAt returns the NPCs present at a venue during a time block.
func (d *Directory) NPCsAt(venueID string, block clock.TimeBlock) []*NPC {
	var out []*NPC
	for _, n := range d.npcs {
		if n.At(venueID, block) {
			out = append(out, n)
		}
	}
	return out
}
