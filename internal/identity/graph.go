package identity

import "cmp"

// LinkGraph is an undirected graph over record ids. Nodes keep their
// insertion order, which pins component discovery and canonical ids.
type LinkGraph[ID cmp.Ordered] struct {
	nodes []ID
	index map[ID]int
	adj   [][]int
	edges int
}

// NewLinkGraph returns an empty graph.
func NewLinkGraph[ID cmp.Ordered]() *LinkGraph[ID] {
	return &LinkGraph[ID]{index: make(map[ID]int)}
}

// AddNode inserts id if it is not already present and returns its position.
func (g *LinkGraph[ID]) AddNode(id ID) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.adj = append(g.adj, nil)
	g.index[id] = i
	return i
}

// AddEdge links a and b, adding either node if needed. Self loops and
// repeated edges are ignored.
func (g *LinkGraph[ID]) AddEdge(a, b ID) {
	ia, ib := g.AddNode(a), g.AddNode(b)
	if ia == ib {
		return
	}
	for _, n := range g.adj[ia] {
		if n == ib {
			return
		}
	}
	g.adj[ia] = append(g.adj[ia], ib)
	g.adj[ib] = append(g.adj[ib], ia)
	g.edges++
}

// Nodes returns the node ids in insertion order.
func (g *LinkGraph[ID]) Nodes() []ID {
	out := make([]ID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Neighbors returns the ids adjacent to id, or nil for an unknown id.
func (g *LinkGraph[ID]) Neighbors(id ID) []ID {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]ID, 0, len(g.adj[i]))
	for _, n := range g.adj[i] {
		out = append(out, g.nodes[n])
	}
	return out
}

// Linked reports whether a and b share an edge.
func (g *LinkGraph[ID]) Linked(a, b ID) bool {
	ia, okA := g.index[a]
	ib, okB := g.index[b]
	if !okA || !okB {
		return false
	}
	for _, n := range g.adj[ia] {
		if n == ib {
			return true
		}
	}
	return false
}

// NodeCount returns the number of nodes.
func (g *LinkGraph[ID]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *LinkGraph[ID]) EdgeCount() int { return g.edges }

// BuildGraph links records that share a normalized key of the same kind.
//
// Each key kind keeps its own owner table mapping a key value to the id that
// last carried it. A record holding a key that already has an owner is linked
// to that owner and then takes ownership, so records sharing a value form a
// chain in input order. Chains are enough because Components takes the
// transitive closure.
func BuildGraph[ID cmp.Ordered](records []Record[ID]) *LinkGraph[ID] {
	g := NewLinkGraph[ID]()
	for _, r := range records {
		g.AddNode(r.ID)
	}
	owners := make(map[KeyKind]map[string]ID, len(Kinds))
	for _, k := range Kinds {
		owners[k] = make(map[string]ID)
	}
	for _, r := range records {
		for _, kind := range Kinds {
			key, ok := Normalize(kind, r.Field(kind))
			if !ok {
				continue
			}
			if prev, seen := owners[kind][key]; seen {
				g.AddEdge(r.ID, prev)
			}
			owners[kind][key] = r.ID
		}
	}
	return g
}
