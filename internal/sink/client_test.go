package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailharvest-engine/internal/domain"
)

func TestSaveContacts(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Contacts []domain.ExtractedContact `json:"contacts"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/contacts/bulk", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(SaveResult{Inserted: 1, Skipped: 1})
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit", 100)
	res, err := c.SaveContacts(context.Background(), []domain.ExtractedContact{
		{Email: "jane@corp.example.com"},
		{Email: "old@corp.example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Bearer sekrit", gotAuth)
	assert.Len(t, gotBody.Contacts, 2)
}

func TestSaveContactsEmptyBatchSkipsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty batch")
	}))
	defer srv.Close()

	res, err := New(srv.URL, "", 100).SaveContacts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
}

func TestFetchKeywords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/keywords", r.URL.Path)
		_, _ = w.Write([]byte(`{"keywords":[{"category":"recruiter_keywords","keyword":"opportunity","active":true}]}`))
	}))
	defer srv.Close()

	kws, err := New(srv.URL, "", 100).FetchKeywords(context.Background())
	require.NoError(t, err)
	require.Len(t, kws, 1)
	assert.Equal(t, "opportunity", kws[0].Keyword)
	assert.True(t, kws[0].Active)
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "bad-token", 100).FetchKeywords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestLogRun(t *testing.T) {
	var got domain.RunSummary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/runs", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New(srv.URL, "", 100).LogRun(context.Background(), domain.RunSummary{Fetched: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Fetched)
}
