package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, "anon-key", 5*time.Second)
}

func TestPasswordLoginSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "aluno@school.pt", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":3600,"user":{"id":"u1","email":"aluno@school.pt"}}`))
	}))
	defer ts.Close()

	sess, err := newTestClient(ts.URL).PasswordLogin(context.Background(), "aluno@school.pt", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at", sess.AccessToken)
	assert.Equal(t, "rt", sess.RefreshToken)
	assert.Equal(t, 3600, sess.ExpiresIn)
	assert.JSONEq(t, `{"id":"u1","email":"aluno@school.pt"}`, string(sess.User))
}

func TestPasswordLoginUpstreamErrorPassthrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).PasswordLogin(context.Background(), "a@b.c", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, string(apiErr.Body), "Invalid login credentials")
}

func TestSignupAutoConfirmed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		data, ok := body["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Ana", data["name"])

		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":3600,"user":{"id":"u2"}}`))
	}))
	defer ts.Close()

	result, err := newTestClient(ts.URL).Signup(context.Background(), "a@b.c", "pw", map[string]interface{}{"name": "Ana"})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Equal(t, "at", result.Session.AccessToken)
	assert.JSONEq(t, `{"id":"u2"}`, string(result.User))
}

func TestSignupConfirmationPending(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u3","email":"a@b.c","confirmation_sent_at":"2026-01-01T00:00:00Z"}`))
	}))
	defer ts.Close()

	result, err := newTestClient(ts.URL).Signup(context.Background(), "a@b.c", "pw", nil)
	require.NoError(t, err)
	assert.Nil(t, result.Session)
	assert.Contains(t, string(result.User), "confirmation_sent_at")
}

func TestRefreshSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{"access_token":"new-at","refresh_token":"new-rt","expires_in":3600}`))
	}))
	defer ts.Close()

	sess := newTestClient(ts.URL).Refresh(context.Background(), "old-rt")
	require.NotNil(t, sess)
	assert.Equal(t, "new-at", sess.AccessToken)
	assert.Equal(t, "new-rt", sess.RefreshToken)
}

func TestRefreshFailureYieldsNilSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	assert.Nil(t, newTestClient(ts.URL).Refresh(context.Background(), "dead-rt"))
}

func TestRefreshNetworkFailureYieldsNilSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // upstream unreachable

	assert.Nil(t, newTestClient(ts.URL).Refresh(context.Background(), "rt"))
}

func TestGetUser(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer user-at", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","email":"aluno@school.pt"}`))
	}))
	defer ts.Close()

	raw, err := newTestClient(ts.URL).GetUser(context.Background(), "user-at")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"aluno@school.pt"}`, string(raw))
}

func TestGetUserInvalidToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid JWT"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).GetUser(context.Background(), "bad")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
