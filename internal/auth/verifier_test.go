package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	var gotPath, gotCredential string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCredential = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	verifier := NewHTTPVerifier(srv.URL)
	err := verifier.Verify(context.Background(), "Bearer token123")

	require.NoError(t, err)
	assert.Equal(t, "/verify", gotPath)
	assert.Equal(t, "Bearer token123", gotCredential)
}

func TestVerify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	verifier := NewHTTPVerifier(srv.URL)
	err := verifier.Verify(context.Background(), "Bearer bad")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	verifier := NewHTTPVerifier(srv.URL)
	err := verifier.Verify(context.Background(), "Bearer token123")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	verifier := NewHTTPVerifier(srv.URL)
	err := verifier.Verify(context.Background(), "Bearer token123")

	assert.ErrorIs(t, err, ErrUnauthorized)
}
