package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/entities", r.URL.Path)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane Doe works at Acme", req.Text)

		_, _ = w.Write([]byte(`{"entities":[{"text":"Jane Doe","label":"PERSON"},{"text":"Acme","label":"ORG"}]}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).Entities(context.Background(), "Jane Doe works at Acme")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "PERSON", got[0].Label)
	assert.Equal(t, "Acme", got[1].Text)
}

func TestEntitiesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Entities(context.Background(), "text")
	assert.Error(t, err)
}
