package companieshouse

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/ownergraph/pkg/cache"
	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/integrations"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

const (
	// DefaultBaseURL is the live Companies House API.
	DefaultBaseURL = "https://api.company-information.service.gov.uk"

	// SandboxBaseURL is the Companies House test environment.
	SandboxBaseURL = "https://api-sandbox.company-information.service.gov.uk"

	pageSize = 100
	maxPages = 20
)

// RateLimit is the documented request allowance: 600 requests per 5 minutes.
var RateLimit = rate.Every(5 * time.Minute / 600)

// Client provides access to the Companies House API.
// It handles HTTP requests with caching, rate limiting and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient creates a Companies House client against [DefaultBaseURL].
//
// Parameters:
//   - apiKey: the registry API key (sent as basic auth user name)
//   - backend: cache backend for HTTP responses (nil disables caching)
//   - cacheTTL: how long responses are cached (typical: 1-24 hours)
func NewClient(apiKey string, backend cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, apiKey, backend, cacheTTL)
}

// NewClientWithBaseURL creates a client against a custom base URL, such as
// [SandboxBaseURL] or a test server.
func NewClientWithBaseURL(baseURL, apiKey string, backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if apiKey != "" {
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"))
	}
	base := integrations.NewClient(backend, "companieshouse", cacheTTL, headers).
		WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.RegistryScope(baseURL))).
		WithRateLimit(rate.NewLimiter(RateLimit, 10))
	return &Client{Client: base, baseURL: baseURL}
}

// WithRefresh makes every call bypass cached responses.
func (c *Client) WithRefresh(refresh bool) *Client {
	c.refresh = refresh
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchCompany retrieves a company profile together with its officers and
// persons with significant control.
//
// Returns [registry.ErrNotFound] (wrapped) when the company doesn't exist.
// A company without a PSC register yields an empty PSC list, not an error.
func (c *Client) FetchCompany(ctx context.Context, number string) (*registry.CompanyBundle, error) {
	number = ogerrors.NormalizeCompanyNumber(number)
	if number == "" {
		return nil, fmt.Errorf("%w: empty company number", registry.ErrNotFound)
	}

	var profile registry.CompanyProfile
	err := c.Cached(ctx, "company:"+number, c.refresh, &profile, func() error {
		return c.Get(ctx, c.baseURL+"/company/"+url.PathEscape(number), &profile)
	})
	if err != nil {
		return nil, mapErr(err, "company "+number)
	}

	officers, err := c.FetchCompanyOfficers(ctx, number)
	if err != nil {
		return nil, err
	}
	pscs, err := c.fetchPSCs(ctx, number)
	if err != nil {
		return nil, err
	}
	return &registry.CompanyBundle{Company: &profile, Officers: officers, PSCs: pscs}, nil
}

// FetchCompanyOfficers returns every officer listed under a company,
// following pagination.
func (c *Client) FetchCompanyOfficers(ctx context.Context, number string) ([]registry.Officer, error) {
	number = ogerrors.NormalizeCompanyNumber(number)
	var officers []registry.Officer
	err := c.Cached(ctx, "officers:"+number, c.refresh, &officers, func() error {
		items, err := paginate[registry.Officer](ctx, c, c.baseURL+"/company/"+url.PathEscape(number)+"/officers")
		officers = items
		return err
	})
	if err != nil {
		return nil, mapErr(err, "officers of "+number)
	}
	return officers, nil
}

func (c *Client) fetchPSCs(ctx context.Context, number string) ([]registry.PSC, error) {
	var pscs []registry.PSC
	err := c.Cached(ctx, "pscs:"+number, c.refresh, &pscs, func() error {
		items, err := paginate[registry.PSC](ctx, c, c.baseURL+"/company/"+url.PathEscape(number)+"/persons-with-significant-control")
		if errors.Is(err, integrations.ErrNotFound) {
			pscs = []registry.PSC{}
			return nil
		}
		pscs = items
		return err
	})
	if err != nil {
		return nil, mapErr(err, "persons with significant control of "+number)
	}
	return pscs, nil
}

// FetchOfficerAppointments returns all appointments held by an officer.
func (c *Client) FetchOfficerAppointments(ctx context.Context, officerID string) ([]registry.Appointment, error) {
	if officerID == "" {
		return nil, fmt.Errorf("%w: empty officer id", registry.ErrNotFound)
	}
	var appts []registry.Appointment
	err := c.Cached(ctx, "appointments:"+officerID, c.refresh, &appts, func() error {
		items, err := paginate[registry.Appointment](ctx, c, c.baseURL+"/officers/"+url.PathEscape(officerID)+"/appointments")
		appts = items
		return err
	})
	if err != nil {
		return nil, mapErr(err, "appointments of officer "+officerID)
	}
	return appts, nil
}

// SearchCompaniesAtLocation returns companies whose registered office
// matches the given address text.
func (c *Client) SearchCompaniesAtLocation(ctx context.Context, location string) ([]registry.CompanyProfile, error) {
	var hits []registry.CompanyProfile
	key := cache.HashKey("location", location)
	err := c.Cached(ctx, key, c.refresh, &hits, func() error {
		var resp page[registry.CompanyProfile]
		u := c.baseURL + "/advanced-search/companies?location=" + integrations.URLEncode(location) +
			fmt.Sprintf("&size=%d", pageSize)
		if err := c.Get(ctx, u, &resp); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				hits = []registry.CompanyProfile{}
				return nil
			}
			return err
		}
		hits = resp.Items
		return nil
	})
	if err != nil {
		return nil, mapErr(err, "location search")
	}
	return hits, nil
}

// SearchCompaniesByName runs a free-text company name search.
func (c *Client) SearchCompaniesByName(ctx context.Context, query string) ([]registry.SearchHit, error) {
	var hits []registry.SearchHit
	key := cache.HashKey("search", query)
	err := c.Cached(ctx, key, c.refresh, &hits, func() error {
		var resp page[registry.SearchHit]
		u := c.baseURL + "/search/companies?q=" + integrations.URLEncode(query) +
			fmt.Sprintf("&items_per_page=%d", pageSize)
		if err := c.Get(ctx, u, &resp); err != nil {
			return err
		}
		hits = resp.Items
		return nil
	})
	if err != nil {
		return nil, mapErr(err, "name search")
	}
	return hits, nil
}

type page[T any] struct {
	Items        []T `json:"items"`
	TotalResults int `json:"total_results"`
	StartIndex   int `json:"start_index"`
}

// paginate walks start_index pages until total_results items are
// collected, a page comes back empty, or maxPages is reached.
func paginate[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	items := []T{}
	for i := 0; i < maxPages; i++ {
		var p page[T]
		u := fmt.Sprintf("%s?items_per_page=%d&start_index=%d", endpoint, pageSize, len(items))
		if err := c.Get(ctx, u, &p); err != nil {
			return nil, err
		}
		items = append(items, p.Items...)
		if len(p.Items) == 0 || len(items) >= p.TotalResults {
			break
		}
	}
	return items, nil
}

// mapErr translates transport errors into registry errors.
func mapErr(err error, what string) error {
	if errors.Is(err, integrations.ErrNotFound) {
		return fmt.Errorf("%w: %s", registry.ErrNotFound, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

var _ registry.Fetcher = (*Client)(nil)
