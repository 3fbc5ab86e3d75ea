package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitySet(t *testing.T) {
	set, err := ParseCapabilities([]string{"Bar", " billiard ", ""})
	require.NoError(t, err)

	assert.True(t, set.Has(CapBar))
	assert.True(t, set.Has(CapBilliard))
	assert.False(t, set.Has(CapSettings))
	assert.Equal(t, []string{"billiard", "bar"}, set.Names())

	set = set.With(CapSettings).Without(CapBar)
	assert.Equal(t, []string{"billiard", "settings"}, set.Names())

	_, err = ParseCapabilities([]string{"launch_rockets"})
	assert.Error(t, err)
}

func TestForRoleAdminGetsEverything(t *testing.T) {
	assert.Equal(t, AllCapabilities(), ForRole(RoleAdmin, 0))
	staff, _ := NewCapabilitySet(CapBar)
	assert.Equal(t, staff, ForRole(RoleStaff, staff))
	assert.Len(t, AllCapabilities().Names(), 8)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)
	caps, _ := NewCapabilitySet(CapBilliard, CapClients)

	token, err := tokens.GenerateToken(Principal{UserID: 7, Username: "sami", Role: RoleStaff, Capabilities: caps})
	require.NoError(t, err)

	p, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, "sami", p.Username)
	assert.True(t, p.Can(CapClients))
	assert.False(t, p.Can(CapUsers))

	_, err = NewTokenService("other", time.Minute).ValidateToken(token)
	assert.Error(t, err)

	_, err = tokens.GenerateToken(Principal{})
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := tokens.GenerateToken(Principal{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	_, err = tokens.ValidateToken(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)
	barOnly, _ := NewCapabilitySet(CapBar)
	token, err := tokens.GenerateToken(Principal{UserID: 3, Role: RoleStaff, Capabilities: barOnly})
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, found := PrincipalFromContext(r.Context())
		require.True(t, found)
		assert.Equal(t, int64(3), p.UserID)
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		cap    Capability
		header string
		query  string
		want   int
	}{
		{"missing header", CapBar, "", "", http.StatusUnauthorized},
		{"bad scheme", CapBar, "Basic abc", "", http.StatusUnauthorized},
		{"garbage token", CapBar, "Bearer nope", "", http.StatusUnauthorized},
		{"allowed", CapBar, "Bearer " + token, "", http.StatusNoContent},
		{"query token", CapBar, "", "?access_token=" + token, http.StatusNoContent},
		{"forbidden", CapSettings, "Bearer " + token, "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Authenticate(tokens)(Require(tc.cap)(ok))
			req := httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
