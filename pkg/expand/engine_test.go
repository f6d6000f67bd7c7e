package expand

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

func seeded(t *testing.T, f *fakeFetcher) (*Engine, *graph.Graph) {
	t.Helper()
	f.companies["00000006"] = seedBundle()
	e := New(f, Options{})
	g, err := e.Seed(context.Background(), "00000006")
	require.NoError(t, err)
	return e, g
}

func snapshot(t *testing.T, g *graph.Graph) string {
	t.Helper()
	data, err := graph.MarshalGraph(g)
	require.NoError(t, err)
	return string(data)
}

func countKind(g *graph.Graph, k graph.Kind) int {
	return g.CountByKind()[k]
}

func TestSeed(t *testing.T) {
	f := newFakeFetcher()
	_, g := seeded(t, f)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.True(t, g.HasNode("officer-abc"))
	assert.True(t, g.HasNode("psc-0"))
}

func TestSeedFailures(t *testing.T) {
	f := newFakeFetcher()
	f.fail["company:00000009"] = errUpstream
	e := New(f, Options{})

	_, err := e.Seed(context.Background(), "00000008")
	require.Error(t, err)
	assert.True(t, ogerrors.Is(err, ogerrors.ErrCodeSeedFetch))
	assert.True(t, errors.Is(err, registry.ErrNotFound))

	_, err = e.Seed(context.Background(), "00000009")
	require.Error(t, err)
	assert.True(t, ogerrors.Is(err, ogerrors.ErrCodeSeedFetch))
	assert.True(t, errors.Is(err, errUpstream))

	f.companies["00000010"] = &registry.CompanyBundle{}
	_, err = e.Seed(context.Background(), "00000010")
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}

func TestExpandOfficerReusesExistingCompany(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	f.appointments["abc"] = []registry.Appointment{
		appointment("00000006", "ACME HOLDINGS LIMITED", "director"),
		appointment("00000007", "ACME TRADING LIMITED", "secretary"),
	}

	res, err := e.Expand(context.Background(), g, []string{"officer-abc"}, 1)
	require.NoError(t, err)

	out := res.Graph
	assert.Equal(t, 2, countKind(out, graph.KindCompany), "existing company must not be duplicated")
	assert.Equal(t, 1, res.Created)

	root, _ := out.Node("00000006")
	assert.Equal(t, "ACME HOLDINGS LIMITED", root.Label)
	assert.NotNil(t, root.Record.(*registry.CompanyProfile).RegisteredOffice, "existing record must be kept")

	back, ok := out.Edge("e-officer-abc-00000006")
	require.True(t, ok, "the reverse of a seed edge is its own identity")
	assert.Equal(t, graph.RelOfficerRole, back.Relation)
	assert.True(t, out.HasEdge("e-00000006-officer-abc"))
	e7, ok := out.Edge("e-officer-abc-00000007")
	require.True(t, ok)
	assert.Equal(t, graph.RelOfficerRole, e7.Relation)
	assert.Equal(t, "secretary", e7.Label)
	assert.Equal(t, 1, f.count("appointments:abc"))
}

func TestExpandTwiceAddsNothing(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	f.appointments["abc"] = []registry.Appointment{appointment("00000007", "ACME TRADING LIMITED", "director")}

	first, err := e.Expand(context.Background(), g, []string{"officer-abc"}, 1)
	require.NoError(t, err)
	second, err := e.Expand(context.Background(), first.Graph, []string{"officer-abc"}, 1)
	require.NoError(t, err)

	assert.Zero(t, second.Created)
	assert.Equal(t, first.Graph.NodeCount(), second.Graph.NodeCount())
	assert.Equal(t, first.Graph.EdgeCount(), second.Graph.EdgeCount())
}

func TestExpandAppointmentRelinksExistingAddress(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	known := appointment("00000007", "ACME TRADING LIMITED", "director")
	known.Address = registeredOffice
	unknown := appointment("00000008", "ACME SERVICES LIMITED", "director")
	unknown.Address = sharedAddress
	f.appointments["abc"] = []registry.Appointment{known, unknown}

	res, err := e.Expand(context.Background(), g, []string{"officer-abc"}, 1)
	require.NoError(t, err)

	out := res.Graph
	link, ok := out.Edge("e-00000007-00000006-addr-primary")
	require.True(t, ok)
	assert.Equal(t, graph.RelRegisteredOffice, link.Relation)
	assert.Equal(t, 1, countKind(out, graph.KindAddress), "officer expansion never creates address nodes")
}

func TestExpandCompanySharedAddressCreatesOneNode(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	f.officers["00000006"] = []registry.Officer{
		{Name: "Jane Doe", OfficerRole: "director", OfficerID: "abc"},
		{Name: "Joe Bloggs", OfficerRole: "director", OfficerID: "def", Address: sharedAddress},
		{Name: "Ann Smith", OfficerRole: "secretary", OfficerID: "ghi", Address: sharedAddress},
	}

	res, err := e.Expand(context.Background(), g, []string{"00000006"}, 1)
	require.NoError(t, err)

	out := res.Graph
	addr, ok := out.AddressNode(graph.FormatAddress(sharedAddress))
	require.True(t, ok)
	assert.Equal(t, graph.RoleCorrespondenceAddress, addr.Role)
	assert.Equal(t, 2, countKind(out, graph.KindAddress))
	assert.True(t, out.HasEdge(graph.EdgeID("officer-def", addr.ID)))
	assert.True(t, out.HasEdge(graph.EdgeID("officer-ghi", addr.ID)))
	assert.Equal(t, 3, res.Created)

	dashed, _ := out.Edge(graph.EdgeID("officer-def", addr.ID))
	assert.Equal(t, graph.StyleDashed, dashed.Style)
}

func TestExpandCompanyReusesGraphAddress(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	f.officers["00000006"] = []registry.Officer{
		{Name: "Joe Bloggs", OfficerRole: "director", OfficerID: "def", Address: registeredOffice},
	}

	res, err := e.Expand(context.Background(), g, []string{"00000006"}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, countKind(res.Graph, graph.KindAddress))
	assert.True(t, res.Graph.HasEdge("e-officer-def-00000006-addr-primary"))
}

func TestExpandSoftFailure(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	primary := graph.PrimaryAddressID("00000006")
	formatted := graph.FormatAddress(registeredOffice)
	f.fail["officers:00000006"] = errUpstream
	f.locations[formatted] = []registry.CompanyProfile{
		{CompanyNumber: "00000006", CompanyName: "ACME HOLDINGS LIMITED"},
		{CompanyNumber: "00000042", CompanyName: "NEIGHBOUR LIMITED"},
	}

	res, err := e.Expand(context.Background(), g, []string{"00000006", primary}, 1)
	require.NoError(t, err, "a failed neighbor fetch must not fail the expansion")

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Created)
	assert.True(t, res.Graph.HasNode("00000042"))
	ra, ok := res.Graph.Edge(graph.EdgeID(primary, "00000042"))
	require.True(t, ok)
	assert.Equal(t, graph.RelRegisteredAt, ra.Relation)
	back, ok := res.Graph.Edge(graph.EdgeID(primary, "00000006"))
	require.True(t, ok, "registered-at is added alongside the seed's registered-office edge")
	assert.Equal(t, graph.RelRegisteredAt, back.Relation)
	assert.Equal(t, graph.RoleRegisteredAt, back.Label)
}

func TestExpandCompanyFollowsOfficerAddresses(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	formatted := graph.FormatAddress(sharedAddress)
	f.officers["00000006"] = []registry.Officer{
		{Name: "Joe Bloggs", OfficerRole: "director", OfficerID: "def", Address: sharedAddress},
	}
	f.locations[formatted] = []registry.CompanyProfile{{CompanyNumber: "00000042", CompanyName: "NEIGHBOUR LIMITED"}}

	res, err := e.Expand(context.Background(), g, []string{"00000006"}, 2)
	require.NoError(t, err)

	addr, ok := res.Graph.AddressNode(formatted)
	require.True(t, ok)
	assert.Equal(t, 1, f.count("location:"+formatted), "new address joins the next frontier")
	assert.Equal(t, 1, f.count("appointments:def"))
	assert.True(t, res.Graph.HasNode("00000042"))
	assert.True(t, res.Graph.HasEdge(graph.EdgeID(addr.ID, "00000042")))
	assert.Equal(t, 2, res.Levels)
}

func TestExpandCompanyFollowsReusedAddress(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	formatted := graph.FormatAddress(registeredOffice)
	f.officers["00000006"] = []registry.Officer{
		{Name: "Joe Bloggs", OfficerRole: "director", OfficerID: "def", Address: registeredOffice},
	}
	f.locations[formatted] = []registry.CompanyProfile{{CompanyNumber: "00000043", CompanyName: "NEXT DOOR LIMITED"}}

	res, err := e.Expand(context.Background(), g, []string{"00000006"}, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, f.count("location:"+formatted))
	assert.True(t, res.Graph.HasEdge(graph.EdgeID(graph.PrimaryAddressID("00000006"), "00000043")))
}

func TestExpandHardFailureLeavesGraphUntouched(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	before := snapshot(t, g)
	f.block = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := e.Expand(ctx, g, []string{"00000006", "officer-abc"}, 2)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, before, snapshot(t, g))
}

func TestExpandMultiLevel(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	f.appointments["abc"] = []registry.Appointment{appointment("00000007", "ACME TRADING LIMITED", "director")}
	f.officers["00000007"] = []registry.Officer{
		{Name: "Jane Doe", OfficerRole: "director", OfficerID: "abc"},
		{Name: "Max Mustermann", OfficerRole: "director", OfficerID: "xyz"},
	}
	f.appointments["xyz"] = []registry.Appointment{appointment("00000099", "FAR AWAY LIMITED", "director")}

	res, err := e.Expand(context.Background(), g, []string{"officer-abc"}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Levels)
	assert.True(t, res.Graph.HasNode("officer-xyz"))
	assert.True(t, res.Graph.HasNode("00000099"))
	assert.Equal(t, 1, f.count("appointments:abc"), "a node is expanded at most once per call")
	assert.Equal(t, 1, f.count("appointments:xyz"))
	assert.NoError(t, res.Graph.Validate())
}

func TestExpandStopsOnEmptyFrontier(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)

	res, err := e.Expand(context.Background(), g, []string{"officer-abc"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Levels)
	assert.Zero(t, res.Created)
}

func TestExpandDeterministicMergeOrder(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)
	f.locations[graph.FormatAddress(registeredOffice)] = []registry.CompanyProfile{{CompanyNumber: "00000020"}}
	g2, err := e.Expand(context.Background(), g, []string{graph.PrimaryAddressID("00000006")}, 1)
	require.NoError(t, err)

	f.officers["00000006"] = []registry.Officer{{Name: "First", OfficerRole: "director", OfficerID: "one", Address: sharedAddress}}
	f.officers["00000020"] = []registry.Officer{{Name: "Second", OfficerRole: "director", OfficerID: "two", Address: sharedAddress}}
	f.delay["officers:00000006"] = 30 * time.Millisecond

	res, err := e.Expand(context.Background(), g2.Graph, []string{"00000006", "00000020"}, 1)
	require.NoError(t, err)

	addr, ok := res.Graph.AddressNode(graph.FormatAddress(sharedAddress))
	require.True(t, ok)
	assert.Equal(t, graph.AddressID(graph.FormatAddress(sharedAddress), 0), addr.ID)

	var officers []string
	for _, n := range res.Graph.Nodes() {
		if n.Kind == graph.KindOfficer {
			officers = append(officers, n.ID)
		}
	}
	assert.Equal(t, []string{"officer-abc", "officer-one", "officer-two"}, officers,
		"merge follows frontier order, not completion order")
}

func TestExpandMaxNodes(t *testing.T) {
	f := newFakeFetcher()
	f.companies["00000006"] = seedBundle()
	e := New(f, Options{MaxNodes: 5})
	g, err := e.Seed(context.Background(), "00000006")
	require.NoError(t, err)
	f.appointments["abc"] = []registry.Appointment{
		appointment("00000007", "A", "director"),
		appointment("00000008", "B", "director"),
		appointment("00000009", "C", "director"),
	}

	res, err := e.Expand(context.Background(), g, []string{"officer-abc"}, 1)
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 5, res.Graph.NodeCount())
	assert.NoError(t, res.Graph.Validate())
}

func TestExpandSkipsNonExpandable(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)

	res, err := e.Expand(context.Background(), g, []string{"psc-0"}, 1)
	require.NoError(t, err)
	assert.Zero(t, res.Levels)
	assert.Equal(t, g.NodeCount(), res.Graph.NodeCount())
}

func TestExpandUnknownNode(t *testing.T) {
	f := newFakeFetcher()
	e, g := seeded(t, f)

	_, err := e.Expand(context.Background(), g, []string{"nope"}, 1)
	require.Error(t, err)
	assert.True(t, ogerrors.Is(err, ogerrors.ErrCodeNodeNotFound))
}

func TestClampLevels(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 3}, {10, 3},
	}
	for _, tt := range tests {
		if got := ClampLevels(tt.in); got != tt.want {
			t.Errorf("ClampLevels(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
