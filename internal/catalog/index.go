package catalog

import (
	"log/slog"
	"sort"
)

// Index is a read-only name lookup over an item catalog. It is never mutated
// after NewIndex returns and may be shared across goroutines.
type Index struct {
	items  []Item
	byName map[string]int
}

// NewIndex builds an index over items. When two items share a name the later
// one wins, matching a map built in catalog order.
func NewIndex(items []Item) *Index {
	ix := &Index{
		items:  make([]Item, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if pos, dup := ix.byName[it.Name]; dup {
			slog.Warn("duplicate catalog item", "name", it.Name)
			ix.items[pos] = it
			continue
		}
		ix.byName[it.Name] = len(ix.items)
		ix.items = append(ix.items, it)
	}
	return ix
}

// Lookup returns the item with the exact (case-sensitive) name.
func (ix *Index) Lookup(name string) (Item, bool) {
	if ix == nil {
		return Item{}, false
	}
	pos, ok := ix.byName[name]
	if !ok {
		return Item{}, false
	}
	return ix.items[pos], true
}

// Len reports the number of distinct items.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.items)
}

// Items returns a copy of the indexed items in catalog order.
func (ix *Index) Items() []Item {
	if ix == nil {
		return nil
	}
	out := make([]Item, len(ix.items))
	copy(out, ix.items)
	return out
}

// ByCategory returns the items of category c in catalog order.
func (ix *Index) ByCategory(c Category) []Item {
	if ix == nil {
		return nil
	}
	var out []Item
	for _, it := range ix.items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// Names returns every item name, sorted.
func (ix *Index) Names() []string {
	if ix == nil {
		return nil
	}
	names := make([]string, 0, len(ix.byName))
	for name := range ix.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
