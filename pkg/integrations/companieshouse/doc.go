// Package companieshouse implements [registry.Fetcher] against the UK
// Companies House public data API.
//
// Requests authenticate with an API key sent as the HTTP basic auth user
// name, are throttled to the documented 600 requests per five minutes, and
// are cached through any [cache.Cache] backend. Cache keys are scoped by
// base URL so sandbox and live responses never mix.
//
// [registry.Fetcher]: github.com/matzehuels/ownergraph/pkg/registry.Fetcher
// [cache.Cache]: github.com/matzehuels/ownergraph/pkg/cache.Cache
package companieshouse
