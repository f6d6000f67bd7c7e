// Package integrations provides HTTP clients for company registry APIs.
//
// # Overview
//
// This package contains the shared HTTP plumbing for registry clients.
// Each registry has its own subpackage:
//
//   - [companieshouse]: UK Companies House public data API
//
// # Client Pattern
//
// Registry clients embed [Client] and implement [registry.Fetcher]:
//
//	client := companieshouse.NewClient(apiKey, backend, 24*time.Hour)
//	bundle, err := client.FetchCompany(ctx, "00000006")
//
// Clients handle:
//   - HTTP requests with retry and rate limiting
//   - Response caching through any [cache.Cache] backend
//   - API-specific parsing into registry records
//
// # Errors
//
// A 404 maps to [ErrNotFound]; 401/403 to [ErrUnauthorized]. Transport
// failures, 429 and 5xx responses map to [ErrNetwork] wrapped with
// [cache.Retryable], so [Client.Cached] retries them with backoff.
//
// [companieshouse]: github.com/matzehuels/ownergraph/pkg/integrations/companieshouse
// [registry.Fetcher]: github.com/matzehuels/ownergraph/pkg/registry.Fetcher
// [cache.Cache]: github.com/matzehuels/ownergraph/pkg/cache.Cache
// [cache.Retryable]: github.com/matzehuels/ownergraph/pkg/cache.Retryable
package integrations
