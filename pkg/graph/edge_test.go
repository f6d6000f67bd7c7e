package graph

import "testing"

func TestNewEdge(t *testing.T) {
	tests := []struct {
		rel  RelationKind
		want Style
	}{
		{RelOfficerRole, StyleSolid},
		{RelPSC, StyleSolid},
		{RelRegisteredOffice, StyleSolid},
		{RelRegisteredAt, StyleSolid},
		{RelCorrespondenceAddress, StyleDashed},
	}
	for _, tt := range tests {
		t.Run(string(tt.rel), func(t *testing.T) {
			e := NewEdge("src", "dst", tt.rel, "label")
			if e.ID != "e-src-dst" {
				t.Errorf("ID = %q, want e-src-dst", e.ID)
			}
			if e.Style != tt.want {
				t.Errorf("Style = %q, want %q", e.Style, tt.want)
			}
			if e.Source != "src" || e.Target != "dst" || e.Relation != tt.rel || e.Label != "label" {
				t.Errorf("unexpected edge %+v", e)
			}
			if !tt.rel.Valid() {
				t.Errorf("%q should be valid", tt.rel)
			}
		})
	}
}

func TestEdgeIDIsDirectional(t *testing.T) {
	if EdgeID("a", "b") == EdgeID("b", "a") {
		t.Error("edge identity must depend on direction")
	}
}
