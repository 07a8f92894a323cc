// Package validation holds input validation rules shared by services and handlers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var scopeSlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,24}$`)

var reservedScopeSlugs = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"billing":       {},
	"settings":      {},
	"scopes":        {},
	"spaces":        {},
	"teams":         {},
	"users":         {},
	"posts":         {},
	"invites":       {},
	"subscriptions": {},
	"health":        {},
	"sentiment":     {},
	"swagger":       {},
	"metrics":       {},
	"login":         {},
	"signup":        {},
}

// ValidateScopeSlug validates scope slug format and reserved names.
func ValidateScopeSlug(slug string) error {
	if !scopeSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedScopeSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
