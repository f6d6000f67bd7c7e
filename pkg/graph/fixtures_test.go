package graph

import (
	"github.com/matzehuels/ownergraph/pkg/registry"
)

func addrA() *registry.Address {
	return &registry.Address{
		AddressLine1: "1 High Street",
		Locality:     "London",
		PostalCode:   "EC1A 1BB",
		Country:      "England",
	}
}

func addrB() *registry.Address {
	return &registry.Address{
		AddressLine1: "9 Mill Lane",
		Locality:     "Leeds",
		PostalCode:   "LS1 4AP",
	}
}

func seedProfile() *registry.CompanyProfile {
	return &registry.CompanyProfile{
		CompanyNumber:    "00000006",
		CompanyName:      "ACME HOLDINGS LIMITED",
		CompanyStatus:    "active",
		DateOfCreation:   "2001-03-14",
		RegisteredOffice: addrA(),
	}
}

func officerWithLink(name, id string, addr *registry.Address) registry.Officer {
	o := registry.Officer{Name: name, OfficerRole: "director", Address: addr}
	if id != "" {
		o.Links = &registry.Links{Officer: &registry.OfficerLinks{Appointments: "/officers/" + id + "/appointments"}}
	}
	return o
}

// bridgeGraph builds O1 → C, O2 → C, O1 → Addr, O2 → Addr.
func bridgeGraph(shared bool) *Graph {
	g := New()
	g.AddNode(Node{ID: "C", Kind: KindCompany, Stable: true})
	g.AddNode(Node{ID: "O1", Kind: KindOfficer})
	g.AddNode(Node{ID: "O2", Kind: KindOfficer})
	g.AddEdge(NewEdge("C", "O1", RelOfficerRole, "director"))
	g.AddEdge(NewEdge("C", "O2", RelOfficerRole, "director"))
	if shared {
		g.AddNode(Node{ID: "Addr", Kind: KindAddress, Address: "1 High Street"})
		g.AddEdge(NewEdge("O1", "Addr", RelCorrespondenceAddress, ""))
		g.AddEdge(NewEdge("O2", "Addr", RelCorrespondenceAddress, ""))
	}
	return g
}
