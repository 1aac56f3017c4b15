package adminclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTokenLeavesOriginalUnset(t *testing.T) {
	client := New("http://localhost:27018")
	authed := client.WithToken("tok")

	assert.Empty(t, client.token)
	assert.Equal(t, "tok", authed.token)
}

func TestListSessionsSendsBearerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/sessions", r.URL.Path)
		w.Write([]byte(`[{"slot":0,"identity_id":1,"character_id":2,"is_moderator":true}]`))
	}))
	defer server.Close()

	client := New(server.URL).WithToken("tok")
	sessions, err := client.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 0, sessions[0].Slot)
	assert.True(t, sessions[0].IsModerator)
}

func TestKickSessionPostsToSlotPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sessions/3/kick", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL).WithToken("tok")
	require.NoError(t, client.KickSession(3))
}

func TestAddBanSendsIPAndReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bans", r.URL.Path)
		var req BanRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1.2.3.4", req.IP)
		assert.Equal(t, "griefing", req.Reason)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL).WithToken("tok")
	require.NoError(t, client.AddBan("1.2.3.4", "griefing"))
}

func TestNonOKStatusReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid bearer token"))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.ListSessions()
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
