package graph

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/ownergraph/pkg/registry"
)

// addressSlugLen caps the slug part of an address identity.
const addressSlugLen = 40

// FormatAddress projects an address onto a single line: line 1, line 2,
// locality, region, postal code and country, skipping blank components,
// joined by ", ".
//
// The result is the dedup key for address nodes: two addresses are the
// same place iff their formatted strings are byte-equal. A nil address
// formats as "".
func FormatAddress(a *registry.Address) string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, p := range a.Parts() {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// AddressID returns the identity of the n-th address node for formatted
// within a batch: "addr-<slug>-<n>".
func AddressID(formatted string, n int) string {
	return "addr-" + slug(formatted) + "-" + strconv.Itoa(n)
}

// PrimaryAddressID returns the identity of a root company's registered
// office node.
func PrimaryAddressID(companyNumber string) string {
	return companyNumber + "-addr-primary"
}

// slug lower-cases s, collapses runs of anything but letters and digits to
// a single '-', and truncates to addressSlugLen runes.
func slug(s string) string {
	var b strings.Builder
	n := 0
	dash := false
	for _, r := range strings.ToLower(s) {
		if n >= addressSlugLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			n++
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
			n++
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
