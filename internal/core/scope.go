package core

import "context"

// ScopeMetadata is curated, human-facing text for one scope.
type ScopeMetadata struct {
	Name        string `json:"name"         yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Description string `json:"description"  yaml:"description"`
}

// ScopeMetadataSource looks up curated metadata. Missing scopes are simply
// absent from the returned map.
type ScopeMetadataSource interface {
	Lookup(ctx context.Context, scopes []string) (map[string]ScopeMetadata, error)
	Name() string
}

// Dictionary resolves localized text by key.
type Dictionary interface {
	Lookup(locale, key string) (string, bool)
}
