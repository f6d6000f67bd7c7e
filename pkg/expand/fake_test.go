package expand

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matzehuels/ownergraph/pkg/registry"
)

var errUpstream = errors.New("upstream unavailable")

// fakeFetcher serves canned registry data. Keys in fail and delay are
// "<method>:<arg>", e.g. "officers:00000006".
type fakeFetcher struct {
	companies    map[string]*registry.CompanyBundle
	appointments map[string][]registry.Appointment
	officers     map[string][]registry.Officer
	locations    map[string][]registry.CompanyProfile
	fail         map[string]error
	delay        map[string]time.Duration
	block        bool

	mu    sync.Mutex
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		companies:    make(map[string]*registry.CompanyBundle),
		appointments: make(map[string][]registry.Appointment),
		officers:     make(map[string][]registry.Officer),
		locations:    make(map[string][]registry.CompanyProfile),
		fail:         make(map[string]error),
		delay:        make(map[string]time.Duration),
		calls:        make(map[string]int),
	}
}

func (f *fakeFetcher) call(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls[key]++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if d := f.delay[key]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.fail[key]
}

func (f *fakeFetcher) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeFetcher) FetchCompany(ctx context.Context, number string) (*registry.CompanyBundle, error) {
	if err := f.call(ctx, "company:"+number); err != nil {
		return nil, err
	}
	b, ok := f.companies[number]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return b, nil
}

func (f *fakeFetcher) FetchOfficerAppointments(ctx context.Context, officerID string) ([]registry.Appointment, error) {
	if err := f.call(ctx, "appointments:"+officerID); err != nil {
		return nil, err
	}
	return f.appointments[officerID], nil
}

func (f *fakeFetcher) FetchCompanyOfficers(ctx context.Context, number string) ([]registry.Officer, error) {
	if err := f.call(ctx, "officers:"+number); err != nil {
		return nil, err
	}
	return f.officers[number], nil
}

func (f *fakeFetcher) SearchCompaniesAtLocation(ctx context.Context, location string) ([]registry.CompanyProfile, error) {
	if err := f.call(ctx, "location:"+location); err != nil {
		return nil, err
	}
	return f.locations[location], nil
}

func (f *fakeFetcher) SearchCompaniesByName(ctx context.Context, query string) ([]registry.SearchHit, error) {
	if err := f.call(ctx, "search:"+query); err != nil {
		return nil, err
	}
	return nil, nil
}

var (
	registeredOffice = &registry.Address{AddressLine1: "1 High Street", Locality: "London", PostalCode: "EC1A 1BB"}
	sharedAddress    = &registry.Address{AddressLine1: "9 Mill Lane", Locality: "Leeds", PostalCode: "LS1 4AP"}
)

func seedBundle() *registry.CompanyBundle {
	return &registry.CompanyBundle{
		Company: &registry.CompanyProfile{
			CompanyNumber:    "00000006",
			CompanyName:      "ACME HOLDINGS LIMITED",
			CompanyStatus:    "active",
			RegisteredOffice: registeredOffice,
		},
		Officers: []registry.Officer{{Name: "Jane Doe", OfficerRole: "director", OfficerID: "abc"}},
		PSCs:     []registry.PSC{{Name: "John Roe"}},
	}
}

func appointment(number, name, role string) registry.Appointment {
	return registry.Appointment{
		AppointedTo: registry.AppointedTo{CompanyNumber: number, CompanyName: name},
		OfficerRole: role,
	}
}
