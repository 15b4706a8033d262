// Package validate holds the format checks applied to every untrusted
// path parameter before it reaches the object store. All checks are
// pure; malformed input yields false, never an error.
package validate

import "regexp"

const maxCredentialLen = 100

var (
	// Lowercase alphanumeric with hyphens/underscores, 3-63 chars,
	// must start and end alphanumeric.
	orgSlugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,61}[a-z0-9]$`)

	// Canonical UUID text form (8-4-4-4-12), case-insensitive.
	reportIDRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// OrgSlug reports whether s is a well-formed organization slug.
func OrgSlug(s string) bool {
	return orgSlugRe.MatchString(s)
}

// ReportID reports whether s is a canonical UUID string.
func ReportID(s string) bool {
	return reportIDRe.MatchString(s)
}

// Credential reports whether s is an acceptable credential candidate:
// non-empty and at most 100 characters. This is a shape check only,
// not a strength policy.
func Credential(s string) bool {
	return len(s) >= 1 && len(s) <= maxCredentialLen
}
