package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-authgate/oauthprovider/internal/models"
)

// ParseScope splits a space separated scope parameter into distinct scopes,
// keeping the first-seen order.
func ParseScope(scope string) []string {
	return uniqueScopes(strings.Fields(scope))
}

func uniqueScopes(scopes []string) []string {
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// checkScopes returns the distinct requested scopes, or ErrInvalidScope when
// the set is empty or reaches outside permitted.
func checkScopes(requested, permitted []string) ([]string, error) {
	scopes := uniqueScopes(requested)
	if len(scopes) == 0 {
		return nil, fmt.Errorf("%w: at least one scope is required", ErrInvalidScope)
	}
	for _, s := range scopes {
		if !slices.Contains(permitted, s) {
			return nil, fmt.Errorf("%w: %q is not permitted", ErrInvalidScope, s)
		}
	}
	return scopes, nil
}

// scopeString is the inverse of ParseScope.
func scopeString(scopes models.Strings) string {
	return strings.Join(scopes, " ")
}
