package graph

var relationStyles = map[RelationKind]Style{
	RelOfficerRole:           StyleSolid,
	RelPSC:                   StyleSolid,
	RelRegisteredOffice:      StyleSolid,
	RelRegisteredAt:          StyleSolid,
	RelCorrespondenceAddress: StyleDashed,
}

// EdgeID returns the identity of the edge from source to target.
func EdgeID(source, target string) string {
	return "e-" + source + "-" + target
}

// NewEdge builds the edge source→target. Its style depends only on rel:
// correspondence addresses are dashed, everything else is solid.
func NewEdge(source, target string, rel RelationKind, label string) Edge {
	return Edge{
		ID:       EdgeID(source, target),
		Source:   source,
		Target:   target,
		Relation: rel,
		Label:    label,
		Style:    StyleFor(rel),
	}
}

// StyleFor returns the style of edges of the given relation.
func StyleFor(rel RelationKind) Style {
	if s, ok := relationStyles[rel]; ok {
		return s
	}
	return StyleSolid
}
