// Package world provides the venue directory: the fixed set of tradeable
// locations, their types, and the goods each one deals in. Venues are
// read-only to the market engine and keyed by stable string IDs.
package world

// VenueType classifies a location for display and rule purposes.
type VenueType uint8

const (
	TypeMarket VenueType = iota
	TypeTavern
	TypeHarbor
	TypeShop
)

var venueTypeNames = [...]string{"Market", "Tavern", "Harbor", "Shop"}

func (t VenueType) String() string {
	if int(t) < len(venueTypeNames) {
		return venueTypeNames[t]
	}
	return "Unknown"
}

// Venue is a tradeable location in the game world.
type Venue struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Type  VenueType `json:"type"`
	Stock []string  `json:"stock"` // Item IDs this venue deals in, buy and sell
}

// Carries reports whether the venue deals in the given item.
func (v *Venue) Carries(itemID string) bool {
	for _, id := range v.Stock {
		if id == itemID {
			return true
		}
	}
	return false
}

// Directory holds every venue for the session, keyed by ID.
type Directory struct {
	venues map[string]*Venue
	order  []string
}

// NewDirectory builds a directory from a fixed venue list.
func NewDirectory(venues []*Venue) *Directory {
	d := &Directory{venues: make(map[string]*Venue, len(venues))}
	for _, v := range venues {
		if _, exists := d.venues[v.ID]; exists {
			continue
		}
		d.venues[v.ID] = v
		d.order = append(d.order, v.ID)
	}
	return d
}

// VenueByID resolves a venue by its identifier.
func (d *Directory) VenueByID(id string) (*Venue, bool) {
	v, ok := d.venues[id]
	return v, ok
}

// AllVenues returns every venue in insertion order.
func (d *Directory) AllVenues() []*Venue {
	out := make([]*Venue, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.venues[id])
	}
	return out
}
