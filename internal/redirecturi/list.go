package redirecturi

import (
	"encoding/json"
	"errors"
	"strings"
)

// List is the raw redirect URI input of a registration payload. It accepts
// either a JSON array of strings or a single comma-separated string.
type List []string

var errInvalidList = errors.New("redirect_uris must be a string or an array of strings")

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return errInvalidList
	}
	*l = strings.Split(one, ",")
	return nil
}

// Normalize trims every entry, drops empty ones and removes exact duplicates
// while keeping the first-seen order. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		uri := strings.TrimSpace(entry)
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		out = append(out, uri)
	}
	return out
}

// NormalizeString splits a comma-separated value and normalizes it.
func NormalizeString(raw string) []string {
	return Normalize(strings.Split(raw, ","))
}
