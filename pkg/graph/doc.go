// Package graph holds the entity-relationship graph of one investigation.
//
// # Model
//
// A [Graph] is two flat mappings, node identity to [Node] and edge identity
// to [Edge], plus insertion order for deterministic iteration. Shared
// addresses and companies make the structure cyclic; keeping nodes and
// edges in flat maps avoids nested ownership entirely.
//
// Node identities follow fixed rules per [Kind]:
//
//	company   registry company number, as-is
//	officer   "officer-<registryID>", or "officer-<parentID>-<index>" when no
//	          registry id can be resolved (unstable)
//	psc       "psc-<index>" within its fetch batch (unstable)
//	address   "addr-<slug>-<n>"; the root company's registered office is
//	          "<companyNumber>-addr-primary"
//
// Edge identities are "e-<source>-<target>". Identities never change after
// creation; only annotations ([Node.CustomColor], [Node.Notes]) and the
// layout position mutate.
//
// # Building
//
// [NormalizeCompany], [NormalizeOfficer], [NormalizePSC] and
// [NormalizeAddress] project typed registry records into nodes.
// [FormatAddress] is the single address projection used for display and as
// the address dedup key. [NewEdge] picks an edge style from its
// [RelationKind]. [Assemble] builds the seed graph for a root company.
//
// # Emphasis
//
// [Highlight] computes which nodes and edges relate to an active node under
// the company-blocking traversal rule: two officers are not related merely
// because they serve the same company, but are related when they share an
// address.
//
// # Serialization
//
// [WriteGraph] and [ReadGraph] round-trip a graph as JSON, including
// records, positions and annotations.
package graph
