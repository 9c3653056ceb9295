package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForServer(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, waitForServer(srv.URL+"/status", 5, time.Millisecond))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitForServer_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := waitForServer(srv.URL+"/status", 2, time.Millisecond)
	assert.EqualError(t, err, "server is not ready after 2 attempts")
}

func TestShowConfiguration(t *testing.T) {
	t.Setenv("SIGNATORIES_CONFIG_PATH", t.TempDir())
	t.Setenv("SIGNATORIES_LANGUAGE", "fr")

	var out bytes.Buffer
	require.NoError(t, showConfiguration(&out, "json"))

	var parsed struct {
		Attributes []struct {
			Name   string `json:"name"`
			Value  string `json:"value"`
			Source string `json:"source"`
		} `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	found := false
	for _, attr := range parsed.Attributes {
		if attr.Name == "language" {
			found = true
			assert.Equal(t, "fr", attr.Value)
			assert.Equal(t, "environment", attr.Source)
		}
	}
	assert.True(t, found)

	out.Reset()
	assert.Error(t, showConfiguration(&out, "xml"))
}
