package redirecturi

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of Validate. Errors lists every violation found.
type Result struct {
	Valid  bool
	Errors []string
}

// ErrEmptySet is the message reported for an empty redirect URI set.
const ErrEmptySet = "at least one redirect URI is required"

// blockedSchemes can execute code or never navigate anywhere useful.
var blockedSchemes = map[string]struct{}{
	"javascript": {},
	"data":       {},
	"vbscript":   {},
	"file":       {},
	"blob":       {},
	"about":      {},
}

var loopbackHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
}

// Validate checks a set of redirect URIs against the registration policy:
// absolute https URIs, plain http only on loopback hosts, no executable
// schemes, no fragments and no embedded credentials. It never stops at the
// first violation.
func Validate(uris []string) Result {
	var errs []string
	if len(uris) == 0 {
		errs = append(errs, ErrEmptySet)
	}
	for _, raw := range uris {
		errs = append(errs, validateOne(raw)...)
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func validateOne(raw string) []string {
	display := SanitizeForLog(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return []string{fmt.Sprintf("redirect URI %q is not a valid URI", display)}
	}

	scheme := strings.ToLower(u.Scheme)
	if _, blocked := blockedSchemes[scheme]; blocked {
		return []string{fmt.Sprintf("redirect URI %q uses blocked scheme %q", display, scheme)}
	}
	if scheme == "" || u.Host == "" {
		return []string{fmt.Sprintf("redirect URI %q must be an absolute URI with a scheme and host", display)}
	}

	var errs []string
	switch scheme {
	case "https":
	case "http":
		if !IsLoopbackHost(u.Hostname()) {
			errs = append(errs, fmt.Sprintf(
				"redirect URI %q uses insecure scheme \"http\"; http is only allowed for localhost, 127.0.0.1 and ::1",
				display,
			))
		}
	default:
		errs = append(errs, fmt.Sprintf(
			"redirect URI %q uses unsupported scheme %q; only https is allowed",
			display, scheme,
		))
	}

	if strings.Contains(raw, "#") {
		errs = append(errs, fmt.Sprintf("redirect URI %q must not contain a fragment", display))
	}
	if u.User != nil {
		errs = append(errs, fmt.Sprintf("redirect URI %q must not contain embedded credentials", display))
	}
	return errs
}

// IsLoopbackHost reports whether host is one of the loopback names allowed
// for plain http development redirects.
func IsLoopbackHost(host string) bool {
	_, ok := loopbackHosts[strings.ToLower(host)]
	return ok
}

// maxLoggedLen caps, in bytes, how much of an unparseable URI is echoed.
const maxLoggedLen = 64

// SanitizeForLog strips credentials, query and fragment from a URI so it can
// be logged or echoed back safely.
func SanitizeForLog(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		if len(raw) <= maxLoggedLen {
			return raw
		}
		n := maxLoggedLen
		for n > 0 && !utf8.RuneStart(raw[n]) {
			n--
		}
		return raw[:n] + "..."
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
