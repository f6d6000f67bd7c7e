// Package registry defines the records fetched from the company registry
// and the capability used to fetch them.
//
// # Records
//
// Raw registry payloads are loosely structured: optional fields are often
// missing and identifiers are buried in links. This package decodes them
// into a closed set of typed records at the ingestion boundary:
//
//   - [CompanyProfile]: a company profile or company search hit
//   - [Officer]: an officer appointment listed under a company
//   - [PSC]: a person with significant control
//   - [Address]: a postal address block
//   - [Appointment]: an officer's appointment at some company
//
// Every record implements [Record], so downstream code can switch on the
// concrete type exhaustively instead of inspecting untyped maps.
//
// # Fetching
//
// [Fetcher] is the capability the graph engine depends on. The concrete
// HTTP implementation lives in pkg/integrations/companieshouse; tests use
// in-memory fakes.
package registry
