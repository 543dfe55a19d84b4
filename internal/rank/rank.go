// Package rank filters and orders process entities against a fuzzy query.
package rank

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Paintersrp/rip/internal/snapshot"
)

// Item pairs an entity with its match score.
type Item struct {
	Entity snapshot.Entity
	Score  int
}

// View is the ranked, filtered result for one snapshot and query. It also
// remembers every pid of the unfiltered snapshot it was built from.
type View struct {
	Items []Item
	Query string
	Sort  SortField

	present map[int32]snapshot.Entity
}

// Rank scores every entity against query and returns the matching ones
// ordered by field, then score descending, then pid ascending. Entities with
// ports are also matched against each port number. Rank is a pure function
// of its inputs.
func Rank(entities []snapshot.Entity, query string, field SortField) View {
	view := View{
		Query:   query,
		Sort:    field,
		present: make(map[int32]snapshot.Entity, len(entities)),
	}
	query = strings.TrimSpace(query)

	for _, e := range entities {
		view.present[e.PID] = e
		score := scoreEntity(e, query)
		if score <= 0 {
			continue
		}
		view.Items = append(view.Items, Item{Entity: e, Score: score})
	}

	slices.SortFunc(view.Items, func(a, b Item) int {
		if c := field.Compare(a.Entity, b.Entity); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Entity.PID, b.Entity.PID)
	})
	return view
}

// Len returns the number of visible items.
func (v View) Len() int {
	return len(v.Items)
}

// At returns the item at index i.
func (v View) At(i int) (Item, bool) {
	if i < 0 || i >= len(v.Items) {
		return Item{}, false
	}
	return v.Items[i], true
}

// IndexOf returns the position of pid in the visible items, or -1.
func (v View) IndexOf(pid int32) int {
	for i, item := range v.Items {
		if item.Entity.PID == pid {
			return i
		}
	}
	return -1
}

// Contains reports whether pid was part of the unfiltered snapshot.
func (v View) Contains(pid int32) bool {
	_, ok := v.present[pid]
	return ok
}

// Total returns the size of the unfiltered snapshot.
func (v View) Total() int {
	return len(v.present)
}

// Lookup returns the entity for pid from the unfiltered snapshot, whether or
// not the query currently shows it.
func (v View) Lookup(pid int32) (snapshot.Entity, bool) {
	e, ok := v.present[pid]
	return e, ok
}
