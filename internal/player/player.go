// Package player holds the single economic actor's state: coins, carried
// items, and current location. Coins and inventory are only ever mutated
// through the market engine's trade path.
package player

// Player is the game's single economic actor.
type Player struct {
	name     string
	coins    int
	capacity int // Maximum number of carried items
	items    []string
	venueID  string
}

// New creates a player with starting coins and inventory capacity.
func New(name string, coins, capacity int) *Player {
	return &Player{name: name, coins: coins, capacity: capacity}
}

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Coins returns the current coin balance.
func (p *Player) Coins() int { return p.coins }

// SpendCoins debits the balance. Returns false (no mutation) if the
// balance is insufficient.
func (p *Player) SpendCoins(amount int) bool {
	if amount < 0 || amount > p.coins {
		return false
	}
	p.coins -= amount
	return true
}

// EarnCoins credits the balance.
func (p *Player) EarnCoins(amount int) {
	if amount > 0 {
		p.coins += amount
	}
}

// HasItem reports whether the player carries at least one of the item.
func (p *Player) HasItem(itemID string) bool {
	for _, id := range p.items {
		if id == itemID {
			return true
		}
	}
	return false
}

// CanAddItem reports whether there is inventory space for one more item.
func (p *Player) CanAddItem() bool {
	return len(p.items) < p.capacity
}

// AddItem places an item into the inventory. Returns false if full.
func (p *Player) AddItem(itemID string) bool {
	if !p.CanAddItem() {
		return false
	}
	p.items = append(p.items, itemID)
	return true
}

// RemoveItem takes one copy of the item out of the inventory.
// Returns false if the player does not hold it.
func (p *Player) RemoveItem(itemID string) bool {
	for i, id := range p.items {
		if id == itemID {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// ItemIDs returns the IDs of all carried items, duplicates included.
func (p *Player) ItemIDs() []string {
	out := make([]string, len(p.items))
	copy(out, p.items)
	return out
}

// CurrentVenueID returns the venue the player is standing in.
func (p *Player) CurrentVenueID() string { return p.venueID }

// MoveTo places the player at a venue.
func (p *Player) MoveTo(venueID string) { p.venueID = venueID }
