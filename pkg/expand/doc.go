// Package expand grows an investigation graph breadth-first.
//
// [Engine.Seed] fetches a root company and assembles the seed graph.
// [Engine.Expand] takes a frontier of node identities and discovers one hop
// of neighbors per node for up to three levels:
//
//	officer  appointments → companies (officer-role edges); the appointed
//	         company is relinked to an address node already in the graph
//	company  officers → officer nodes, their correspondence addresses
//	address  companies registered at the formatted address (registered-at)
//	psc      not expandable
//
// Within a level every fetch runs concurrently and nothing touches the
// graph until all of them settle. Results are then merged in frontier order,
// so dedup arbitration between siblings never depends on network timing.
// The next frontier is every neighbor touched in the level, created or
// pre-existing.
//
// A failed fetch only costs its node's contribution for that level. A hard
// failure (context cancellation) returns an error and the input graph is
// left exactly as it was: the engine always works on a clone.
package expand
