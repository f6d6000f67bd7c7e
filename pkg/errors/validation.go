package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// companyNumberRegex matches registry company numbers: eight characters,
// either all digits or a two-letter jurisdiction prefix (SC, NI, OC, ...)
// followed by six digits.
var companyNumberRegex = regexp.MustCompile(`^([0-9]{8}|[A-Z]{2}[0-9]{6})$`)

// NormalizeCompanyNumber upper-cases and left-pads numeric company numbers
// to eight digits ("6" becomes "00000006").
func NormalizeCompanyNumber(number string) string {
	s := strings.ToUpper(strings.TrimSpace(number))
	if s == "" {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	if len(s) < 8 {
		s = strings.Repeat("0", 8-len(s)) + s
	}
	return s
}

// ValidateCompanyNumber validates a company number after normalization.
func ValidateCompanyNumber(number string) error {
	if number == "" {
		return New(ErrCodeInvalidCompany, "company number cannot be empty")
	}
	if !companyNumberRegex.MatchString(NormalizeCompanyNumber(number)) {
		return New(ErrCodeInvalidCompany, "invalid company number: %q", number)
	}
	return nil
}

// ValidateQuery validates free-text search input (company name or
// location). It rejects empty input, control characters and overlong
// strings.
func ValidateQuery(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return New(ErrCodeInvalidInput, "search query cannot be empty")
	}
	if len(q) > 256 {
		return New(ErrCodeInvalidInput, "search query too long (max 256 characters)")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "search query contains invalid control characters")
		}
	}
	return nil
}

// ValidateDepth validates an expansion depth requested by the presentation
// layer. Valid depths are 1 through 3.
func ValidateDepth(depth int) error {
	if depth < 1 || depth > 3 {
		return New(ErrCodeInvalidDepth, "expansion depth must be between 1 and 3, got %d", depth)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
