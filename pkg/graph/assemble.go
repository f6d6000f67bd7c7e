package graph

import (
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// Assemble builds the seed graph of a root company from its profile and
// its officer and PSC listings.
//
// Officers are deduplicated by computed identity, first occurrence wins.
// Each officer with an address gets a correspondence-address edge to an
// address node: the company's registered office node when the formatted
// strings match, else an address node shared by every officer in the batch
// with the same formatted address. The company gets officer-role, psc and
// one registered-office edge.
//
// Assemble has no side effects and is deterministic: identical inputs
// yield identical graphs. No positions are assigned.
func Assemble(profile *registry.CompanyProfile, officers []registry.Officer, pscs []registry.PSC) *Graph {
	g := New()
	root := NormalizeCompany(profile)
	g.AddNode(root)

	var (
		primaryID = PrimaryAddressID(root.ID)
		seq       = 0
		edges     []Edge
	)

	ensurePrimary := func() {
		if !g.HasNode(primaryID) {
			g.AddNode(NormalizeAddress(profile.RegisteredOffice, primaryID, RoleRegisteredAddress))
		}
	}

	for i := range officers {
		o := &officers[i]
		node := NormalizeOfficer(o, root.ID, i)
		if !g.AddNode(node) {
			continue
		}
		edges = append(edges, NewEdge(root.ID, node.ID, RelOfficerRole, o.OfficerRole))

		formatted := node.Address
		if formatted == "" {
			continue
		}
		var addrID string
		switch {
		case formatted == root.Address:
			ensurePrimary()
			addrID = primaryID
		default:
			if existing, ok := g.AddressNode(formatted); ok {
				addrID = existing.ID
			} else {
				addrID = g.NextAddressID(formatted, seq)
				seq++
				g.AddNode(NormalizeAddress(o.Address, addrID, RoleCorrespondenceAddress))
			}
		}
		edges = append(edges, NewEdge(node.ID, addrID, RelCorrespondenceAddress, RoleCorrespondenceAddress))
	}

	for i := range pscs {
		node := NormalizePSC(&pscs[i], i)
		if !g.AddNode(node) {
			continue
		}
		edges = append(edges, NewEdge(root.ID, node.ID, RelPSC, PSCEdgeLabel))
	}

	if root.Address != "" {
		ensurePrimary()
		edges = append(edges, NewEdge(root.ID, primaryID, RelRegisteredOffice, RoleRegisteredAddress))
	}

	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}
