package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) issuePair(t *testing.T, clientID string) *services.TokenPair {
	t.Helper()
	pair, err := ts.tokens.IssuePair(context.Background(), services.PairParams{
		ClientID: clientID,
		UserID:   ts.user.ID,
		Scopes:   []string{"openid", "email"},
	})
	require.NoError(t, err)
	return pair
}

func TestIntrospect(t *testing.T) {
	ts := setupTestServer(t)
	client := ts.registerClient(t, "Resource Server")
	pair := ts.issuePair(t, client.ClientID)

	w := ts.postForm(t, "/oauth/introspect", url.Values{"token": {pair.Access.RawToken}}, client.ClientID, client.ClientSecret)
	require.Equal(t, http.StatusOK, w.Code)
	active := decode[introspectionResponse](t, w)
	assert.True(t, active.Active)
	assert.Equal(t, "openid email", active.Scope)
	assert.Equal(t, client.ClientID, active.ClientID)
	assert.Equal(t, ts.user.ID, active.Subject)
	assert.Equal(t, services.HintAccessToken, active.TokenType)
	assert.Equal(t, pair.Access.ID, active.JTI)

	w = ts.postForm(t, "/oauth/introspect", url.Values{
		"token":           {pair.Refresh.RawToken},
		"token_type_hint": {services.HintRefreshToken},
	}, client.ClientID, client.ClientSecret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.HintRefreshToken, decode[introspectionResponse](t, w).TokenType)

	w = ts.postForm(t, "/oauth/introspect", url.Values{"token": {"rt_garbage"}}, client.ClientID, client.ClientSecret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active":false}`, w.Body.String())
}

func TestIntrospect_ClientAuthentication(t *testing.T) {
	ts := setupTestServer(t)
	client := ts.registerClient(t, "Resource Server")
	pair := ts.issuePair(t, client.ClientID)
	form := url.Values{"token": {pair.Access.RawToken}}

	w := ts.postForm(t, "/oauth/introspect", form, client.ClientID, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_client")

	w = ts.postForm(t, "/oauth/introspect", form, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// client_secret_post
	form.Set("client_id", client.ClientID)
	form.Set("client_secret", client.ClientSecret)
	w = ts.postForm(t, "/oauth/introspect", form, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.postForm(t, "/oauth/introspect", url.Values{}, client.ClientID, client.ClientSecret)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRevoke(t *testing.T) {
	ts := setupTestServer(t)
	client := ts.registerClient(t, "App")
	other := ts.registerClient(t, "Other")
	pair := ts.issuePair(t, client.ClientID)

	// Another client cannot revoke the token, but still gets 200.
	w := ts.postForm(t, "/oauth/revoke", url.Values{"token": {pair.Refresh.RawToken}}, other.ClientID, other.ClientSecret)
	assert.Equal(t, http.StatusOK, w.Code)
	_, err := ts.tokens.Validate(context.Background(), pair.Refresh.RawToken, "refresh")
	require.NoError(t, err)

	w = ts.postForm(t, "/oauth/revoke", url.Values{
		"token":           {pair.Refresh.RawToken},
		"token_type_hint": {services.HintRefreshToken},
	}, client.ClientID, client.ClientSecret)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = ts.tokens.Validate(context.Background(), pair.Refresh.RawToken, "refresh")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	// The derived access token dies with its refresh token.
	_, err = ts.tokens.Validate(context.Background(), pair.Access.RawToken, "access")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	w = ts.postForm(t, "/oauth/revoke", url.Values{"token": {"unknown"}}, client.ClientID, client.ClientSecret)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.postForm(t, "/oauth/revoke", url.Values{}, client.ClientID, client.ClientSecret)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
