// Package catalog describes the shape kinds the editor can place: their
// palette group, display name, whether they are containers and how they
// stack and color.
package catalog

import "sort"

// Service describes one placeable kind.
type Service struct {
	Kind       string
	Group      string
	ButtonText string
	IsFrame    bool
	ZLayer     int
	Color      string
}

// Label returns the display name of the service.
func (s Service) Label() string {
	if s.ButtonText != "" {
		return s.ButtonText
	}
	return s.Kind
}

// Catalog is the lookup the core needs from the shape catalogue.
type Catalog interface {
	// Lookup returns the service for kind.
	Lookup(kind string) (Service, bool)

	// IsFrame reports whether kind is a container shape.
	IsFrame(kind string) bool

	// DefaultLabel is the label given to shapes created without one.
	DefaultLabel(kind string) string

	// Kinds lists every known kind in palette order.
	Kinds() []string
}

// Table is a Catalog backed by a fixed list of services.
type Table struct {
	services map[string]Service
	order    []string
}

// NewTable builds a catalogue from services. Later duplicates win.
func NewTable(services []Service) *Table {
	t := &Table{services: make(map[string]Service, len(services))}
	for _, s := range services {
		if _, ok := t.services[s.Kind]; !ok {
			t.order = append(t.order, s.Kind)
		}
		t.services[s.Kind] = s
	}
	groupRank := make(map[string]int, len(GroupOrder))
	for i, g := range GroupOrder {
		groupRank[g] = i
	}
	sort.SliceStable(t.order, func(i, j int) bool {
		gi, ok := groupRank[t.services[t.order[i]].Group]
		if !ok {
			gi = len(GroupOrder)
		}
		gj, ok := groupRank[t.services[t.order[j]].Group]
		if !ok {
			gj = len(GroupOrder)
		}
		return gi < gj
	})
	return t
}

// Lookup implements Catalog.
func (t *Table) Lookup(kind string) (Service, bool) {
	s, ok := t.services[kind]
	return s, ok
}

// IsFrame implements Catalog.
func (t *Table) IsFrame(kind string) bool {
	return t.services[kind].IsFrame
}

// DefaultLabel implements Catalog. Unknown kinds label themselves.
func (t *Table) DefaultLabel(kind string) string {
	if s, ok := t.services[kind]; ok {
		return s.Label()
	}
	return kind
}

// Kinds implements Catalog.
func (t *Table) Kinds() []string {
	return append([]string(nil), t.order...)
}

// Group returns the kinds of one palette group in table order.
func (t *Table) Group(name string) []string {
	var kinds []string
	for _, k := range t.order {
		if t.services[k].Group == name {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// ZLayer returns the stacking layer of kind. Higher layers draw on top.
func (t *Table) ZLayer(kind string) int {
	return t.services[kind].ZLayer
}

var defaultTable = NewTable(awsServices)

// Default returns the built-in AWS catalogue.
func Default() *Table {
	return defaultTable
}
