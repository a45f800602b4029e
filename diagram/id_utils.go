package diagram

// PruneDanglingEdges removes every edge whose from or to does not name a
// live node or frame. It returns the ids of the removed edges.
func PruneDanglingEdges(d *Diagram) []int {
	if d == nil || len(d.Edges) == 0 {
		return nil
	}

	live := make(map[int]bool, len(d.Nodes)+len(d.Frames))
	for _, n := range d.Nodes {
		live[n.ID] = true
	}
	for _, f := range d.Frames {
		live[f.ID] = true
	}

	var removed []int
	kept := d.Edges[:0]
	for _, e := range d.Edges {
		if live[e.From] && live[e.To] {
			kept = append(kept, e)
			continue
		}
		removed = append(removed, e.ID)
	}
	d.Edges = kept
	return removed
}

// DuplicateIDs returns every id used by more than one entity across nodes,
// frames and edges, in first-seen order.
func DuplicateIDs(d *Diagram) []int {
	if d == nil {
		return nil
	}
	count := make(map[int]int)
	var order []int
	seen := func(id int) {
		if count[id] == 0 {
			order = append(order, id)
		}
		count[id]++
	}
	for _, n := range d.Nodes {
		seen(n.ID)
	}
	for _, f := range d.Frames {
		seen(f.ID)
	}
	for _, e := range d.Edges {
		seen(e.ID)
	}

	var dups []int
	for _, id := range order {
		if count[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

// EdgesTouching returns the ids of edges with an endpoint in ids.
func EdgesTouching(d *Diagram, ids map[int]bool) []int {
	var out []int
	for _, e := range d.Edges {
		if ids[e.From] || ids[e.To] {
			out = append(out, e.ID)
		}
	}
	return out
}
