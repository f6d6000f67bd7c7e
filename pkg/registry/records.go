package registry

import (
	"strings"
)

// Record is the closed set of normalized registry records.
// Implementations: *CompanyProfile, *Officer, *PSC, *Address.
type Record interface {
	// RecordKind returns the record discriminator ("company", "officer",
	// "psc" or "address").
	RecordKind() string
	isRecord()
}

// Record kinds returned by [Record.RecordKind].
const (
	KindCompany = "company"
	KindOfficer = "officer"
	KindPSC     = "psc"
	KindAddress = "address"
)

// Address is a postal address block as returned by the registry.
// Every field is optional.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty" bson:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty" bson:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty" bson:"locality,omitempty"`
	Region       string `json:"region,omitempty" bson:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Country      string `json:"country,omitempty" bson:"country,omitempty"`
}

// IsZero reports whether every address component is blank.
func (a *Address) IsZero() bool {
	if a == nil {
		return true
	}
	for _, s := range a.parts() {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// parts returns the components in display order.
func (a *Address) parts() []string {
	return []string{a.AddressLine1, a.AddressLine2, a.Locality, a.Region, a.PostalCode, a.Country}
}

// Parts returns the address components in canonical order: line 1,
// line 2, locality, region, postal code, country. A nil address yields nil.
func (a *Address) Parts() []string {
	if a == nil {
		return nil
	}
	return a.parts()
}

// CompanyProfile is a company as seen by the registry, either a full
// profile or a search hit.
type CompanyProfile struct {
	CompanyNumber    string   `json:"company_number" bson:"company_number"`
	CompanyName      string   `json:"company_name,omitempty" bson:"company_name,omitempty"`
	CompanyStatus    string   `json:"company_status,omitempty" bson:"company_status,omitempty"`
	DateOfCreation   string   `json:"date_of_creation,omitempty" bson:"date_of_creation,omitempty"`
	Type             string   `json:"type,omitempty" bson:"type,omitempty"`
	SICCodes         []string `json:"sic_codes,omitempty" bson:"sic_codes,omitempty"`
	RegisteredOffice *Address `json:"registered_office_address,omitempty" bson:"registered_office_address,omitempty"`
}

// Links holds the hypermedia links attached to an officer listing.
type Links struct {
	Self    string        `json:"self,omitempty" bson:"self,omitempty"`
	Officer *OfficerLinks `json:"officer,omitempty" bson:"officer,omitempty"`
}

// OfficerLinks points at an officer's own resources.
type OfficerLinks struct {
	Appointments string `json:"appointments,omitempty" bson:"appointments,omitempty"`
}

// PartialDate is a month/year date, as the registry publishes dates of
// birth.
type PartialDate struct {
	Month int `json:"month,omitempty" bson:"month,omitempty"`
	Year  int `json:"year,omitempty" bson:"year,omitempty"`
}

// Officer is one officer appointment listed under a company.
type Officer struct {
	Name               string       `json:"name" bson:"name"`
	OfficerRole        string       `json:"officer_role,omitempty" bson:"officer_role,omitempty"`
	OfficerID          string       `json:"officer_id,omitempty" bson:"officer_id,omitempty"`
	AppointedOn        string       `json:"appointed_on,omitempty" bson:"appointed_on,omitempty"`
	ResignedOn         string       `json:"resigned_on,omitempty" bson:"resigned_on,omitempty"`
	Occupation         string       `json:"occupation,omitempty" bson:"occupation,omitempty"`
	Nationality        string       `json:"nationality,omitempty" bson:"nationality,omitempty"`
	CountryOfResidence string       `json:"country_of_residence,omitempty" bson:"country_of_residence,omitempty"`
	DateOfBirth        *PartialDate `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Address            *Address     `json:"address,omitempty" bson:"address,omitempty"`
	Links              *Links       `json:"links,omitempty" bson:"links,omitempty"`
}

// RegistryID returns the officer's stable registry id: the explicit
// officer_id when present, else the id embedded in the appointments link.
// Returns "" when neither is resolvable.
func (o *Officer) RegistryID() string {
	if o == nil {
		return ""
	}
	if id := strings.TrimSpace(o.OfficerID); id != "" {
		return id
	}
	if o.Links != nil && o.Links.Officer != nil {
		return OfficerIDFromLink(o.Links.Officer.Appointments)
	}
	return ""
}

// PSC is a person (or entity) with significant control over a company.
type PSC struct {
	Name               string       `json:"name" bson:"name"`
	Kind               string       `json:"kind,omitempty" bson:"kind,omitempty"`
	NaturesOfControl   []string     `json:"natures_of_control,omitempty" bson:"natures_of_control,omitempty"`
	NotifiedOn         string       `json:"notified_on,omitempty" bson:"notified_on,omitempty"`
	CeasedOn           string       `json:"ceased_on,omitempty" bson:"ceased_on,omitempty"`
	Nationality        string       `json:"nationality,omitempty" bson:"nationality,omitempty"`
	CountryOfResidence string       `json:"country_of_residence,omitempty" bson:"country_of_residence,omitempty"`
	DateOfBirth        *PartialDate `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Address            *Address     `json:"address,omitempty" bson:"address,omitempty"`
}

// AppointedTo identifies the company an appointment is held at.
type AppointedTo struct {
	CompanyNumber string `json:"company_number" bson:"company_number"`
	CompanyName   string `json:"company_name,omitempty" bson:"company_name,omitempty"`
	CompanyStatus string `json:"company_status,omitempty" bson:"company_status,omitempty"`
}

// Appointment is one of an officer's appointments.
type Appointment struct {
	AppointedTo   AppointedTo `json:"appointed_to" bson:"appointed_to"`
	Name          string      `json:"name,omitempty" bson:"name,omitempty"`
	OfficerRole   string      `json:"officer_role,omitempty" bson:"officer_role,omitempty"`
	AppointedOn   string      `json:"appointed_on,omitempty" bson:"appointed_on,omitempty"`
	ResignedOn    string      `json:"resigned_on,omitempty" bson:"resigned_on,omitempty"`
	CompanyStatus string      `json:"company_status,omitempty" bson:"company_status,omitempty"`
	Address       *Address    `json:"address,omitempty" bson:"address,omitempty"`
}

// Company returns the appointed-to company as a partial profile.
// The appointment's own company_status wins over the nested one.
func (a *Appointment) Company() *CompanyProfile {
	status := a.CompanyStatus
	if status == "" {
		status = a.AppointedTo.CompanyStatus
	}
	return &CompanyProfile{
		CompanyNumber: a.AppointedTo.CompanyNumber,
		CompanyName:   a.AppointedTo.CompanyName,
		CompanyStatus: status,
	}
}

// SearchHit is one result of a company name search.
type SearchHit struct {
	CompanyNumber  string   `json:"company_number"`
	Title          string   `json:"title"`
	CompanyStatus  string   `json:"company_status,omitempty"`
	AddressSnippet string   `json:"address_snippet,omitempty"`
	DateOfCreation string   `json:"date_of_creation,omitempty"`
	Address        *Address `json:"address,omitempty"`
}

// CompanyBundle is everything fetched to seed an investigation.
type CompanyBundle struct {
	Company  *CompanyProfile `json:"company"`
	Officers []Officer       `json:"officers"`
	PSCs     []PSC           `json:"pscs"`
}

func (*CompanyProfile) RecordKind() string { return KindCompany }
func (*Officer) RecordKind() string        { return KindOfficer }
func (*PSC) RecordKind() string            { return KindPSC }
func (*Address) RecordKind() string        { return KindAddress }

func (*CompanyProfile) isRecord() {}
func (*Officer) isRecord()        {}
func (*PSC) isRecord()            {}
func (*Address) isRecord()        {}

// OfficerIDFromLink extracts the officer id from an appointments link of
// the form "/officers/{id}/appointments". Returns "" when the link does not
// contain an officers segment.
func OfficerIDFromLink(link string) string {
	segs := strings.Split(strings.Trim(link, "/"), "/")
	for i := 0; i < len(segs)-1; i++ {
		if segs[i] == "officers" && segs[i+1] != "" {
			return segs[i+1]
		}
	}
	return ""
}
