package graph

import (
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// Kind is the entity kind of a node.
type Kind string

// Node kinds.
const (
	KindCompany Kind = "company"
	KindOfficer Kind = "officer"
	KindPSC     Kind = "psc"
	KindAddress Kind = "address"
)

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCompany, KindOfficer, KindPSC, KindAddress:
		return true
	}
	return false
}

// RelationKind is the relationship an edge represents.
type RelationKind string

// Relation kinds.
const (
	RelOfficerRole           RelationKind = "officer-role"
	RelPSC                   RelationKind = "psc"
	RelRegisteredOffice      RelationKind = "registered-office"
	RelCorrespondenceAddress RelationKind = "correspondence-address"
	RelRegisteredAt          RelationKind = "registered-at"
)

// Valid reports whether r is one of the known relation kinds.
func (r RelationKind) Valid() bool {
	switch r {
	case RelOfficerRole, RelPSC, RelRegisteredOffice, RelCorrespondenceAddress, RelRegisteredAt:
		return true
	}
	return false
}

// Style is a rendering hint for an edge. It carries no meaning beyond
// presentation.
type Style string

// Edge styles.
const (
	StyleSolid  Style = "solid"
	StyleDashed Style = "dashed"
)

// Address roles.
const (
	RoleRegisteredAddress     = "Registered Address"
	RoleCorrespondenceAddress = "Correspondence Address"
)

// RoleRegisteredAt labels the edge from an address to a company found
// registered there.
const RoleRegisteredAt = "Registered At"

// DefaultPSCRole is the role of a PSC that lists no nature of control.
const DefaultPSCRole = "Significant Control"

// PSCEdgeLabel is the label of every company→PSC edge.
const PSCEdgeLabel = "PSC"

// Point is a 2D position. Layout positions anchor the node's top-left
// corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one entity in the graph.
//
// ID, Kind and Record are fixed at creation. Position is assigned only by
// the layout engine. CustomColor and Notes are user annotations and are
// never derived from fetched data.
type Node struct {
	ID             string `json:"id"`
	Kind           Kind   `json:"kind"`
	Label          string `json:"label,omitempty"`
	Role           string `json:"role,omitempty"`
	Subtext        string `json:"subtext,omitempty"`
	Status         string `json:"status,omitempty"`
	Country        string `json:"country,omitempty"`
	OccupationInfo string `json:"occupation_info,omitempty"`

	// Address is the formatted address: the registered office for
	// companies, the correspondence address for officers and PSCs, and the
	// node's own address for address nodes.
	Address string `json:"address,omitempty"`

	// OfficerID is the officer's registry id when resolvable.
	OfficerID string `json:"officer_id,omitempty"`

	// Stable is false for positional identities (PSCs and officers without
	// a registry id). Unstable nodes are never expanded.
	Stable bool `json:"stable"`

	// Record is the normalized source record, kept for detail rendering.
	// Records are shared between graph copies and must not be mutated.
	Record registry.Record `json:"-"`

	CustomColor string `json:"custom_color,omitempty"`
	Notes       string `json:"notes,omitempty"`

	Position *Point `json:"position,omitempty"`
}

// Expandable reports whether the node has a neighbor-discovery rule.
func (n *Node) Expandable() bool {
	switch n.Kind {
	case KindCompany, KindAddress:
		return true
	case KindOfficer:
		return n.Stable && n.OfficerID != ""
	}
	return false
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Relation RelationKind `json:"relation"`
	Label    string       `json:"label,omitempty"`
	Style    Style        `json:"style"`
}
