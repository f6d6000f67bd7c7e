package graph

// Emphasis is the highlighted state of every node and edge for one active
// node. Both maps hold an entry for every identity in the graph.
type Emphasis struct {
	Active string          `json:"active,omitempty"`
	Nodes  map[string]bool `json:"nodes"`
	Edges  map[string]bool `json:"edges"`
}

// EmphasizedNodes returns the emphasized node identities in graph order.
func (e Emphasis) EmphasizedNodes(g *Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		if e.Nodes[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// EmphasizedEdges returns the emphasized edge identities in graph order.
func (e Emphasis) EmphasizedEdges(g *Graph) []string {
	var out []string
	for _, ed := range g.Edges() {
		if e.Edges[ed.ID] {
			out = append(out, ed.ID)
		}
	}
	return out
}

type adjacency struct {
	node string
	edge string
}

// Highlight returns the emphasis induced by the active node.
//
// Traversal is breadth-first over the undirected view of the edges and does
// not continue through a company other than the active node itself: a
// company is emphasized when reached, but sharing a company does not relate
// its officers. A final pass emphasizes every edge whose endpoints are both
// emphasized, recovering links such as two officers of one company that are
// also joined through a shared address.
//
// An empty or unknown active identity emphasizes nothing. g is not
// modified.
func Highlight(g *Graph, active string) Emphasis {
	em := Emphasis{
		Nodes: make(map[string]bool, g.NodeCount()),
		Edges: make(map[string]bool, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		em.Nodes[n.ID] = false
	}
	for _, e := range g.Edges() {
		em.Edges[e.ID] = false
	}
	if !g.HasNode(active) {
		return em
	}
	em.Active = active

	adj := make(map[string][]adjacency, g.NodeCount())
	for _, e := range g.Edges() {
		adj[e.Source] = append(adj[e.Source], adjacency{node: e.Target, edge: e.ID})
		adj[e.Target] = append(adj[e.Target], adjacency{node: e.Source, edge: e.ID})
	}

	em.Nodes[active] = true
	queue := []string{active}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if n, _ := g.Node(id); n.Kind == KindCompany && id != active {
			continue
		}
		for _, a := range adj[id] {
			em.Edges[a.edge] = true
			if !em.Nodes[a.node] {
				em.Nodes[a.node] = true
				queue = append(queue, a.node)
			}
		}
	}

	for _, e := range g.Edges() {
		if em.Nodes[e.Source] && em.Nodes[e.Target] {
			em.Edges[e.ID] = true
		}
	}
	return em
}

// Any reports whether anything is emphasized.
func (e Emphasis) Any() bool {
	return e.Active != ""
}
