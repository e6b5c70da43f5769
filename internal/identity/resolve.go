package identity

import (
	"cmp"
	"slices"
)

// Group is one connected component of a LinkGraph.
type Group[ID cmp.Ordered] struct {
	Canonical ID
	Members   []ID // sorted ascending
}

// Components partitions the graph into connected components. Traversal
// starts from each unvisited node in insertion order, so the canonical id
// of a group is the member that was inserted first. Groups are returned in
// discovery order.
func (g *LinkGraph[ID]) Components() []Group[ID] {
	visited := make([]bool, len(g.nodes))
	var groups []Group[ID]
	queue := make([]int, 0, len(g.nodes))
	for start := range g.nodes {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)
		members := make([]ID, 0, 1)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, g.nodes[cur])
			for _, n := range g.adj[cur] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		slices.Sort(members)
		groups = append(groups, Group[ID]{Canonical: g.nodes[start], Members: members})
	}
	return groups
}

// Result maps every input id to its canonical id and lists the members of
// each identity.
type Result[ID cmp.Ordered] struct {
	Mapping map[ID]ID
	Groups  map[ID][]ID
}

// Resolve groups records into identities. It never fails: unusable contact
// fields simply produce no links, and an empty input yields empty maps.
func Resolve[ID cmp.Ordered](records []Record[ID]) *Result[ID] {
	comps := BuildGraph(records).Components()
	res := &Result[ID]{
		Mapping: make(map[ID]ID, len(records)),
		Groups:  make(map[ID][]ID, len(comps)),
	}
	for _, c := range comps {
		res.Groups[c.Canonical] = c.Members
		for _, m := range c.Members {
			res.Mapping[m] = c.Canonical
		}
	}
	return res
}

// Canonical returns the canonical id for id, or id itself when it was not
// part of the resolved input.
func (r *Result[ID]) Canonical(id ID) ID {
	if c, ok := r.Mapping[id]; ok {
		return c
	}
	return id
}

// Aliases returns every id known to belong to the identity of canonical.
func (r *Result[ID]) Aliases(canonical ID) []ID {
	if members, ok := r.Groups[canonical]; ok {
		out := make([]ID, len(members))
		copy(out, members)
		return out
	}
	return []ID{canonical}
}

// Len returns the number of distinct identities.
func (r *Result[ID]) Len() int { return len(r.Groups) }

// Sorted returns the groups ordered by canonical id.
func (r *Result[ID]) Sorted() []Group[ID] {
	keys := make([]ID, 0, len(r.Groups))
	for k := range r.Groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Group[ID], 0, len(keys))
	for _, k := range keys {
		out = append(out, Group[ID]{Canonical: k, Members: r.Groups[k]})
	}
	return out
}
