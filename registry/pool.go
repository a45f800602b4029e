// Package registry owns entity identity: the bounded id pool shared by
// nodes, frames and edges, and the sanitizer every external payload passes
// through before it reaches the store.
package registry

import (
	"errors"

	"archdraw/diagram"
)

// DefaultCapacity is the size of the occupancy table. Id 0 is never handed
// out, so a pool holds at most DefaultCapacity-1 live entities.
const DefaultCapacity = 1000

// ErrPoolExhausted is returned when every id in the pool is in use.
var ErrPoolExhausted = errors.New("id pool exhausted")

// Pool is a fixed-capacity occupancy table of entity ids.
type Pool struct {
	used []bool
	free int
}

// NewPool creates an empty pool. A non-positive capacity selects DefaultCapacity.
func NewPool(capacity int) *Pool {
	if capacity <= 1 {
		capacity = DefaultCapacity
	}
	return &Pool{used: make([]bool, capacity), free: capacity - 1}
}

// Capacity returns the size of the occupancy table.
func (p *Pool) Capacity() int {
	return len(p.used)
}

// Free returns how many ids can still be allocated.
func (p *Pool) Free() int {
	return p.free
}

// Valid reports whether id can ever be held by the pool.
func (p *Pool) Valid(id int) bool {
	return id >= 1 && id < len(p.used)
}

// InUse reports whether id is currently allocated.
func (p *Pool) InUse(id int) bool {
	return p.Valid(id) && p.used[id]
}

// Allocate returns the lowest unused positive id and marks it used.
func (p *Pool) Allocate() (int, error) {
	for id := 1; id < len(p.used); id++ {
		if !p.used[id] {
			p.used[id] = true
			p.free--
			return id, nil
		}
	}
	return 0, ErrPoolExhausted
}

// Release marks id as free. Releasing an unknown or free id is a no-op.
func (p *Pool) Release(id int) {
	if p.InUse(id) {
		p.used[id] = false
		p.free++
	}
}

// Reserve claims id if it is valid and free. Otherwise it allocates the next
// free id and returns that instead so the caller can remap references.
func (p *Pool) Reserve(id int) (int, error) {
	if p.Valid(id) && !p.used[id] {
		p.used[id] = true
		p.free--
		return id, nil
	}
	return p.Allocate()
}

// Reset frees every id.
func (p *Pool) Reset() {
	clear(p.used)
	p.free = len(p.used) - 1
}

// Clone returns an independent copy of the pool.
func (p *Pool) Clone() *Pool {
	return &Pool{used: append([]bool(nil), p.used...), free: p.free}
}

// Rebuild resets the pool and replays every entity of d, rewriting d in
// place. Valid free ids are kept; colliding or invalid ids (including 0)
// are reassigned afterwards so they never steal a legitimately numbered
// entity's id. Edge endpoints follow the first element that carried the
// old id, and edges whose endpoints cannot be resolved are dropped.
func (p *Pool) Rebuild(d *diagram.Diagram) error {
	p.Reset()
	remap := make(map[int]int, len(d.Nodes)+len(d.Frames))

	ids := make([]*int, 0, len(d.Nodes)+len(d.Frames))
	for i := range d.Nodes {
		ids = append(ids, &d.Nodes[i].ID)
	}
	for i := range d.Frames {
		ids = append(ids, &d.Frames[i].ID)
	}
	olds := make([]int, len(ids))
	for i, id := range ids {
		olds[i] = *id
	}
	if err := p.assign(ids); err != nil {
		return err
	}
	for i, id := range ids {
		if _, seen := remap[olds[i]]; !seen {
			remap[olds[i]] = *id
		}
	}

	edges := d.Edges[:0]
	for _, e := range d.Edges {
		from, okFrom := remap[e.From]
		to, okTo := remap[e.To]
		if !okFrom || !okTo {
			continue
		}
		edges = append(edges, diagram.Edge{ID: e.ID, From: from, To: to})
	}
	d.Edges = edges

	edgeIDs := make([]*int, len(edges))
	for i := range edges {
		edgeIDs[i] = &edges[i].ID
	}
	return p.assign(edgeIDs)
}

// assign claims each id in place, first every valid free one, then fresh
// ids for the rest.
func (p *Pool) assign(ids []*int) error {
	var pending []*int
	for _, id := range ids {
		if p.Valid(*id) && !p.used[*id] {
			p.used[*id] = true
			p.free--
			continue
		}
		pending = append(pending, id)
	}
	for _, id := range pending {
		fresh, err := p.Allocate()
		if err != nil {
			return err
		}
		*id = fresh
	}
	return nil
}
