// Package catalog provides the item repository: immutable item identity,
// names, base prices, and category tags. Items are owned here and referenced
// by ID everywhere else; the market engine never copies an item with
// mutated pricing.
package catalog

// Item is a tradeable good in the game world.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	BaseBuy    int      `json:"base_buy"`  // Base purchase price in coins
	BaseSell   int      `json:"base_sell"` // Base sale price in coins
	Categories []string `json:"categories,omitempty"`
	Weight     float64  `json:"weight"` // Carry weight units
}

// HasCategory reports whether the item carries the given category tag.
func (it Item) HasCategory(category string) bool {
	for _, c := range it.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Repository is an in-memory item catalog keyed by item ID.
type Repository struct {
	items map[string]Item
	order []string // Insertion order for stable AllItems
}

// NewRepository builds a repository from a fixed item list.
func NewRepository(items []Item) *Repository {
	r := &Repository{items: make(map[string]Item, len(items))}
	for _, it := range items {
		if _, exists := r.items[it.ID]; exists {
			continue
		}
		r.items[it.ID] = it
		r.order = append(r.order, it.ID)
	}
	return r
}

// ItemByID resolves an item by its identifier.
func (r *Repository) ItemByID(id string) (Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

// AllItems returns every catalog item in insertion order.
func (r *Repository) AllItems() []Item {
	out := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}
