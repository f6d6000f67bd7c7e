package graph

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/ownergraph/pkg/registry"
)

// NotAvailable is the display value of a missing field.
const NotAvailable = "N/A"

// Display returns v, or [NotAvailable] when v is blank. Normalization keeps
// missing fields empty; the fallback is applied only when rendering.
func Display(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

// NormalizeCompany projects a company profile into a company node.
func NormalizeCompany(p *registry.CompanyProfile) Node {
	n := Node{
		ID:      p.CompanyNumber,
		Kind:    KindCompany,
		Label:   p.CompanyName,
		Status:  p.CompanyStatus,
		Address: FormatAddress(p.RegisteredOffice),
		Stable:  true,
		Record:  p,
	}
	if p.DateOfCreation != "" {
		n.Subtext = "Inc: " + formatDate(p.DateOfCreation)
	}
	if p.RegisteredOffice != nil {
		n.Country = strings.TrimSpace(p.RegisteredOffice.Country)
	}
	return n
}

// OfficerNodeID returns the identity of an officer listed at position index
// under parentID.
func OfficerNodeID(o *registry.Officer, parentID string, index int) string {
	if id := o.RegistryID(); id != "" {
		return "officer-" + id
	}
	return "officer-" + parentID + "-" + strconv.Itoa(index)
}

// NormalizeOfficer projects an officer listing into an officer node.
// parentID and index only matter when the officer has no registry id.
func NormalizeOfficer(o *registry.Officer, parentID string, index int) Node {
	id := o.RegistryID()
	n := Node{
		ID:        OfficerNodeID(o, parentID, index),
		Kind:      KindOfficer,
		Label:     o.Name,
		Role:      o.OfficerRole,
		Country:   o.CountryOfResidence,
		Address:   FormatAddress(o.Address),
		OfficerID: id,
		Stable:    id != "",
		Record:    o,
	}
	if o.AppointedOn != "" {
		n.Subtext = "Appointed: " + formatDate(o.AppointedOn)
	}
	if o.ResignedOn != "" {
		n.Status = "resigned"
	}
	n.OccupationInfo = joinNonEmpty(", ", o.Occupation, o.Nationality)
	return n
}

// PSCNodeID returns the positional identity of the PSC at index.
func PSCNodeID(index int) string {
	return "psc-" + strconv.Itoa(index)
}

// NormalizePSC projects a PSC listing into a PSC node. The role is the
// first nature of control with hyphens replaced by spaces.
func NormalizePSC(p *registry.PSC, index int) Node {
	n := Node{
		ID:      PSCNodeID(index),
		Kind:    KindPSC,
		Label:   p.Name,
		Role:    DefaultPSCRole,
		Country: p.CountryOfResidence,
		Address: FormatAddress(p.Address),
		Record:  p,
	}
	if len(p.NaturesOfControl) > 0 && p.NaturesOfControl[0] != "" {
		n.Role = strings.ReplaceAll(p.NaturesOfControl[0], "-", " ")
	}
	if p.NotifiedOn != "" {
		n.Subtext = "Notified: " + formatDate(p.NotifiedOn)
	}
	if p.CeasedOn != "" {
		n.Status = "ceased"
	}
	return n
}

// NormalizeAddress builds an address node with the given identity. role is
// [RoleRegisteredAddress] or [RoleCorrespondenceAddress].
func NormalizeAddress(a *registry.Address, id, role string) Node {
	formatted := FormatAddress(a)
	n := Node{
		ID:      id,
		Kind:    KindAddress,
		Label:   formatted,
		Role:    role,
		Address: formatted,
		Stable:  true,
		Record:  a,
	}
	if a != nil {
		n.Country = strings.TrimSpace(a.Country)
	}
	return n
}

// formatDate renders an ISO date as "02 Jan 2006"; anything else is kept
// verbatim.
func formatDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02 Jan 2006")
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
