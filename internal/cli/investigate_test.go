package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
)

func TestParseExpandSteps(t *testing.T) {
	steps, err := parseExpandSteps([]string{"officer-jane=2", " 00000006 ", "address-1-high-street=3"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []expandStep{
		{node: "officer-jane", depth: 2},
		{node: "00000006", depth: 1},
		{node: "address-1-high-street", depth: 3},
	}, steps)

	steps, err = parseExpandSteps(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParseExpandStepsErrors(t *testing.T) {
	tests := []struct {
		value string
		code  ogerrors.Code
	}{
		{"officer-jane=deep", ogerrors.ErrCodeInvalidDepth},
		{"officer-jane=4", ogerrors.ErrCodeInvalidDepth},
		{"officer-jane=0", ogerrors.ErrCodeInvalidDepth},
		{"=2", ogerrors.ErrCodeInvalidNode},
		{"", ogerrors.ErrCodeInvalidNode},
	}
	for _, tt := range tests {
		_, err := parseExpandSteps([]string{tt.value}, 1)
		if !ogerrors.Is(err, tt.code) {
			t.Errorf("parseExpandSteps(%q) err = %v, want code %s", tt.value, err, tt.code)
		}
	}
}
