package expand

import (
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// merger folds fetch results into the working graph. Nodes that already
// exist are never recreated or overwritten; only missing edges are added.
type merger struct {
	g        *graph.Graph
	maxNodes int

	// seq numbers new address nodes across the whole call.
	seq int

	expanded    map[string]bool
	touched     []string
	touchedSet  map[string]bool
	everTouched map[string]bool

	created      int
	levelCreated int
	truncated    bool
}

func newMerger(g *graph.Graph, maxNodes int) *merger {
	return &merger{
		g:           g,
		maxNodes:    maxNodes,
		expanded:    make(map[string]bool),
		everTouched: make(map[string]bool),
	}
}

func (m *merger) beginLevel() {
	m.touched = nil
	m.touchedSet = make(map[string]bool)
	m.levelCreated = 0
}

func (m *merger) touch(id string) {
	m.everTouched[id] = true
	if !m.touchedSet[id] {
		m.touchedSet[id] = true
		m.touched = append(m.touched, id)
	}
}

// add inserts n if there is room, reporting whether the node now exists.
func (m *merger) add(n graph.Node) bool {
	if m.g.HasNode(n.ID) {
		return true
	}
	if m.g.NodeCount() >= m.maxNodes {
		m.truncated = true
		return false
	}
	m.g.AddNode(n)
	m.created++
	m.levelCreated++
	return true
}

// link adds e unless an edge with the same identity exists. Identities are
// per ordered pair, so a reverse edge does not block it.
func (m *merger) link(e graph.Edge) {
	if !m.g.HasEdge(e.ID) {
		m.g.AddEdge(e)
	}
}

func (m *merger) merge(id string, d discovery) {
	switch d.kind {
	case graph.KindOfficer:
		m.mergeAppointments(id, d.appointments)
	case graph.KindCompany:
		m.mergeOfficers(id, d.officers)
	case graph.KindAddress:
		m.mergeLocation(id, d.companies)
	}
}

// mergeAppointments links an officer to every company it is appointed at.
// Known companies keep their existing node. An appointment address only
// relinks the company to an address node that is already in the graph.
func (m *merger) mergeAppointments(officerID string, appts []registry.Appointment) {
	for i := range appts {
		a := &appts[i]
		number := a.AppointedTo.CompanyNumber
		if number == "" {
			continue
		}
		if !m.add(graph.NormalizeCompany(a.Company())) {
			continue
		}
		m.link(graph.NewEdge(officerID, number, graph.RelOfficerRole, a.OfficerRole))
		m.touch(number)

		formatted := graph.FormatAddress(a.Address)
		if formatted == "" {
			continue
		}
		if addr, ok := m.g.AddressNode(formatted); ok {
			m.link(graph.NewEdge(number, addr.ID, graph.RelRegisteredOffice, graph.RoleRegisteredAddress))
		}
	}
}

// mergeOfficers adds a company's officers. A new officer with an address
// gets a correspondence-address edge to the address node for its formatted
// address, reusing any node already in the graph, including ones created
// earlier in this call. Both the officer and its address join the next
// frontier.
func (m *merger) mergeOfficers(companyID string, officers []registry.Officer) {
	for i := range officers {
		o := &officers[i]
		oid := graph.OfficerNodeID(o, companyID, i)
		if m.g.HasNode(oid) {
			m.link(graph.NewEdge(companyID, oid, graph.RelOfficerRole, o.OfficerRole))
			m.touch(oid)
			continue
		}
		if !m.add(graph.NormalizeOfficer(o, companyID, i)) {
			continue
		}
		m.g.AddEdge(graph.NewEdge(companyID, oid, graph.RelOfficerRole, o.OfficerRole))
		m.touch(oid)

		formatted := graph.FormatAddress(o.Address)
		if formatted == "" {
			continue
		}
		var addrID string
		if addr, ok := m.g.AddressNode(formatted); ok {
			addrID = addr.ID
		} else {
			addrID = m.g.NextAddressID(formatted, m.seq)
			m.seq++
			if !m.add(graph.NormalizeAddress(o.Address, addrID, graph.RoleCorrespondenceAddress)) {
				continue
			}
		}
		m.link(graph.NewEdge(oid, addrID, graph.RelCorrespondenceAddress, graph.RoleCorrespondenceAddress))
		m.touch(addrID)
	}
}

// mergeLocation links an address to the companies registered at it.
func (m *merger) mergeLocation(addrID string, companies []registry.CompanyProfile) {
	for i := range companies {
		c := &companies[i]
		if c.CompanyNumber == "" {
			continue
		}
		if !m.add(graph.NormalizeCompany(c)) {
			continue
		}
		m.link(graph.NewEdge(addrID, c.CompanyNumber, graph.RelRegisteredAt, graph.RoleRegisteredAt))
		m.touch(c.CompanyNumber)
	}
}
