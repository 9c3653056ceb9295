package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/certificates/42/signatories", r.URL.Path)
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ada","title":"Dean","certificate":"42"},{"id":2,"name":"Grace","title":"Provost","certificate":"42"}]`))
	}))
	defer srv.Close()

	open := Opener(srv.Client(), http.Header{"Authorization": {"Token abc"}})
	res := open(srv.URL + "/certificates/42/signatories")

	got, err := res.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "Provost", got[1].Title)
}

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_, hasID := in["id"]
		assert.False(t, hasID)
		assert.Equal(t, "Ada", in["name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9,"name":"Ada","title":"Dean","certificate":"42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/certificates/42/signatories", srv.Client())
	got, err := c.Create(context.Background(), signatory.Signatory{Name: "Ada", Title: "Dean", Certificate: "42"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
}

func TestClient_UpdateAndDeleteUseItemURL(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"name":"Ada","title":"Chair"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/certificates/42/signatories/", srv.Client())
	s := signatory.Signatory{ID: 3, Name: "Ada", Title: "Chair"}

	_, err := c.Update(context.Background(), s)
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), s))

	assert.Equal(t, []string{
		"PUT /certificates/42/signatories/3",
		"DELETE /certificates/42/signatories/3",
	}, calls)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "signatory not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	err := c.Delete(context.Background(), signatory.Signatory{ID: 77})
	require.Error(t, err)
	assert.ErrorIs(t, err, signatory.ErrRemote)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "signatory not found")
}

func TestClient_NewSignatoryCannotBeDeleted(t *testing.T) {
	c := NewClient("http://unused.test", nil)
	err := c.Delete(context.Background(), signatory.Signatory{Name: "unsaved"})
	assert.ErrorIs(t, err, signatory.ErrNotFound)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil)
	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, signatory.ErrRemote)
}
