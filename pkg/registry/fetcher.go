package registry

import (
	"context"
	"errors"
)

// Fetcher retrieves records from the company registry.
//
// Any method may fail. The graph engine treats a failure during expansion
// as "no data for this node this round"; only [Fetcher.FetchCompany] during
// seeding is fatal to an investigation. Retries, if any, are the
// implementation's concern.
type Fetcher interface {
	// FetchCompany returns a company's profile together with its officer
	// and PSC listings.
	FetchCompany(ctx context.Context, number string) (*CompanyBundle, error)

	// FetchOfficerAppointments returns all appointments of an officer.
	FetchOfficerAppointments(ctx context.Context, officerID string) ([]Appointment, error)

	// FetchCompanyOfficers returns the officers listed under a company.
	FetchCompanyOfficers(ctx context.Context, number string) ([]Officer, error)

	// SearchCompaniesAtLocation returns companies registered at the given
	// address text.
	SearchCompaniesAtLocation(ctx context.Context, location string) ([]CompanyProfile, error)

	// SearchCompaniesByName runs a free-text company name search.
	SearchCompaniesByName(ctx context.Context, query string) ([]SearchHit, error)
}

// ErrNotFound is returned by a [Fetcher] when the registry has no record
// for the requested identifier.
var ErrNotFound = errors.New("registry record not found")
