package scopemeta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-authgate/oauthprovider/internal/cache"
	"github.com/go-authgate/oauthprovider/internal/client"
	"github.com/go-authgate/oauthprovider/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	name    string
	entries map[string]core.ScopeMetadata
	err     error
	calls   atomic.Int32
	asked   [][]string
}

func (s *countingSource) Lookup(ctx context.Context, scopes []string) (map[string]core.ScopeMetadata, error) {
	s.calls.Add(1)
	s.asked = append(s.asked, append([]string(nil), scopes...))
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]core.ScopeMetadata{}
	for _, scope := range scopes {
		if e, ok := s.entries[scope]; ok {
			out[scope] = e
		}
	}
	return out, nil
}

func (s *countingSource) Name() string { return s.name }

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "scopes.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
scopes:
  - name: profile
    display_name: Profile
    description: Read your profile
  - name: billing:read
    display_name: Billing
    description: Read invoices
`), 0o600))

	src, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "file", src.Name())

	got, err := src.Lookup(context.Background(), []string{"profile", "billing:read", "email"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Billing", got["billing:read"].DisplayName)
	assert.Equal(t, "Read your profile", got["profile"].Description)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("scopes:\n  - display_name: X\n"), 0o600))
	_, err = LoadFile(noName)
	assert.ErrorIs(t, err, ErrInvalidMetadata)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("scopes: [\n"), 0o600))
	_, err = LoadFile(broken)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestChain_PriorityAndPartialFailure(t *testing.T) {
	first := &countingSource{name: "first", entries: map[string]core.ScopeMetadata{
		"profile": {Name: "profile", DisplayName: "From first"},
	}}
	second := &countingSource{name: "second", entries: map[string]core.ScopeMetadata{
		"profile": {Name: "profile", DisplayName: "From second"},
		"email":   {Name: "email", DisplayName: "Email"},
	}}
	broken := &countingSource{name: "broken", err: errors.New("boom")}

	chain := NewChain(first, nil, broken, second)
	got, err := chain.Lookup(context.Background(), []string{"profile", "email"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, "From first", got["profile"].DisplayName)
	assert.Equal(t, "Email", got["email"].DisplayName)
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	next := &countingSource{name: "file", entries: map[string]core.ScopeMetadata{
		"profile": {Name: "profile", DisplayName: "Profile"},
	}}
	c := cache.NewMemoryCache[core.ScopeMetadata]()
	src := NewCachedSource(next, c, time.Minute, nil)

	got, err := src.Lookup(ctx, []string{"profile", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, "Profile", got["profile"].DisplayName)
	assert.Equal(t, int32(1), next.calls.Load())

	got, err = src.Lookup(ctx, []string{"profile"})
	require.NoError(t, err)
	assert.Equal(t, "Profile", got["profile"].DisplayName)
	assert.Equal(t, int32(1), next.calls.Load(), "hit must not reach the source")

	_, err = src.Lookup(ctx, []string{"profile", "unknown"})
	require.NoError(t, err)
	require.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, []string{"unknown"}, next.asked[1], "only misses are forwarded")
	assert.Equal(t, "file", src.Name())
}

func TestCachedSource_PropagatesError(t *testing.T) {
	next := &countingSource{name: "http", err: errors.New("down")}
	src := NewCachedSource(next, cache.NewMemoryCache[core.ScopeMetadata](), time.Minute, nil)

	got, err := src.Lookup(context.Background(), []string{"profile"})
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestHTTPSource(t *testing.T) {
	var received lookupRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "s3cret", r.Header.Get("X-API-Secret"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(document{Scopes: []core.ScopeMetadata{
			{Name: "profile", DisplayName: "Profile", Description: "Read your profile"},
			{Name: "extra", DisplayName: "Not requested"},
		}})
	}))
	defer srv.Close()

	rc, err := client.NewRetryClient(client.RetryOptions{
		AuthMode:   "simple",
		AuthSecret: "s3cret",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)

	src := NewHTTPSource(rc, srv.URL)
	got, err := src.Lookup(context.Background(), []string{"profile", "email"})
	require.NoError(t, err)

	sort.Strings(received.Scopes)
	assert.Equal(t, []string{"email", "profile"}, received.Scopes)
	assert.Len(t, got, 1)
	assert.Equal(t, "Read your profile", got["profile"].Description)
	assert.Equal(t, "http", src.Name())
}

func TestHTTPSource_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad scopes"}`))
	}))
	defer srv.Close()

	rc, err := client.NewRetryClient(client.RetryOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = NewHTTPSource(rc, srv.URL).Lookup(context.Background(), []string{"profile"})
	assert.ErrorIs(t, err, ErrSourceResponse)
}

func TestHTTPSource_EmptyInputSkipsRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	rc, err := client.NewRetryClient(client.RetryOptions{Timeout: time.Second})
	require.NoError(t, err)

	got, err := NewHTTPSource(rc, srv.URL).Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, hits.Load())
}

func TestDictionary_Fallbacks(t *testing.T) {
	d, err := LoadDictionary(fstest.MapFS{
		"en.yaml":    {Data: []byte("consent:\n  scopes:\n    openid: Confirm identity\n    email: See email\n")},
		"pt.yaml":    {Data: []byte("consent:\n  scopes:\n    openid: Confirmar identidade\n")},
		"pt-BR.yaml": {Data: []byte("consent:\n  scopes:\n    email: Ver e-mail\n")},
	})
	require.NoError(t, err)

	msg, ok := d.Lookup("pt-BR", ScopeKey("email"))
	assert.True(t, ok)
	assert.Equal(t, "Ver e-mail", msg)

	msg, ok = d.Lookup("pt_BR", ScopeKey("openid"))
	assert.True(t, ok)
	assert.Equal(t, "Confirmar identidade", msg)

	msg, ok = d.Lookup("ja", ScopeKey("email"))
	assert.True(t, ok)
	assert.Equal(t, "See email", msg)

	msg, ok = d.Lookup("", ScopeKey("openid"))
	assert.True(t, ok)
	assert.Equal(t, "Confirm identity", msg)

	_, ok = d.Lookup("en", ScopeKey("unknown"))
	assert.False(t, ok)
}

func TestLoadBundledDictionary(t *testing.T) {
	d, err := LoadBundledDictionary()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "de", "fr"}, d.Locales())

	for _, locale := range []string{"en", "de", "fr"} {
		for _, scope := range []string{"openid", "profile", "email", "offline_access"} {
			_, ok := d.Lookup(locale, ScopeKey(scope))
			assert.True(t, ok, "%s missing %s", locale, scope)
		}
	}
}
