package scopemeta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-authgate/oauthprovider/internal/core"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrInvalidMetadata is returned when a metadata document cannot be used.
var ErrInvalidMetadata = errors.New("invalid scope metadata")

// document is the on-disk and on-the-wire shape of curated metadata.
type document struct {
	Scopes []core.ScopeMetadata `json:"scopes" yaml:"scopes"`
}

func (d document) index() (map[string]core.ScopeMetadata, error) {
	out := make(map[string]core.ScopeMetadata, len(d.Scopes))
	for i, s := range d.Scopes {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidMetadata, i)
		}
		out[s.Name] = s
	}
	return out, nil
}

// StaticSource serves a fixed set of entries.
type StaticSource struct {
	name    string
	entries map[string]core.ScopeMetadata
}

var _ core.ScopeMetadataSource = (*StaticSource)(nil)

// NewStaticSource indexes entries by scope name. Later duplicates win.
func NewStaticSource(name string, entries ...core.ScopeMetadata) *StaticSource {
	idx := make(map[string]core.ScopeMetadata, len(entries))
	for _, e := range entries {
		idx[e.Name] = e
	}
	return &StaticSource{name: name, entries: idx}
}

// LoadFile reads a YAML document of the form
//
//	scopes:
//	  - name: profile
//	    display_name: Profile
//	    description: Read your name and picture
func LoadFile(path string) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMetadata, path, err)
	}
	idx, err := doc.index()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &StaticSource{name: "file", entries: idx}, nil
}

func (s *StaticSource) Lookup(ctx context.Context, scopes []string) (map[string]core.ScopeMetadata, error) {
	out := make(map[string]core.ScopeMetadata, len(scopes))
	for _, scope := range scopes {
		if e, ok := s.entries[scope]; ok {
			out[scope] = e
		}
	}
	return out, nil
}

func (s *StaticSource) Name() string {
	return s.name
}

// Chain queries several sources concurrently. For a scope found in more than
// one source the earliest source in the chain wins.
type Chain struct {
	sources []core.ScopeMetadataSource
}

var _ core.ScopeMetadataSource = (*Chain)(nil)

// NewChain builds a chain in priority order. Nil sources are skipped.
func NewChain(sources ...core.ScopeMetadataSource) *Chain {
	c := &Chain{}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Lookup returns whatever the healthy sources found together with the joined
// errors of the failing ones.
func (c *Chain) Lookup(ctx context.Context, scopes []string) (map[string]core.ScopeMetadata, error) {
	results := make([]map[string]core.ScopeMetadata, len(c.sources))
	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	for i, src := range c.sources {
		g.Go(func() error {
			found, err := src.Lookup(ctx, scopes)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
				mu.Unlock()
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string]core.ScopeMetadata, len(scopes))
	for i := len(results) - 1; i >= 0; i-- {
		for k, v := range results[i] {
			merged[k] = v
		}
	}
	return merged, errors.Join(errs...)
}

func (c *Chain) Name() string {
	return "chain"
}
