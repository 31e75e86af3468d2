package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxnav/internal/intent"
	"voxnav/internal/nav"
)

func TestAnalyzeIntent(t *testing.T) {
	dests := nav.DefaultCatalog().Destinations()

	t.Run("navigation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/intent/analyze", r.URL.Path)

			var req analyzeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "go home", req.Text)
			assert.Equal(t, "about", req.CurrentDestinationID)
			assert.Len(t, req.Destinations, len(dests))

			_, _ = w.Write([]byte(`{
				"success": true, "hasMatch": true, "intentType": "navigation",
				"matchedDestination": {"id": "home", "name": "Home", "path": "/"},
				"listMutation": null, "formMutation": null
			}`))
		}))
		defer srv.Close()

		c := New(srv.URL, time.Second)
		action, err := c.AnalyzeIntent(context.Background(), "go home", dests, "about")
		require.NoError(t, err)
		assert.Equal(t, intent.KindNavigation, action.Kind)
		assert.Equal(t, "home", action.Destination.ID)
		assert.Equal(t, "go home", action.Utterance)
	})

	t.Run("form mutation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"success": true, "hasMatch": true, "intentType": "form-mutation",
				"matchedDestination": null, "listMutation": null,
				"formMutation": {"op": "fill-one", "entries": [{"field": "name", "value": "John"}]}
			}`))
		}))
		defer srv.Close()

		action, err := New(srv.URL, time.Second).AnalyzeIntent(context.Background(), "name is John", dests, "")
		require.NoError(t, err)
		require.Equal(t, intent.KindFormMutation, action.Kind)
		assert.Equal(t, intent.FormFillOne, action.Form.Op)
		require.Len(t, action.Form.Entries, 1)
	})

	t.Run("none maps to no-match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true, "hasMatch": false, "intentType": "none",
				"matchedDestination": null, "listMutation": null, "formMutation": null}`))
		}))
		defer srv.Close()

		action, err := New(srv.URL, time.Second).AnalyzeIntent(context.Background(), "mumble", dests, "")
		require.NoError(t, err)
		assert.Equal(t, intent.KindNone, action.Kind)
	})

	t.Run("missing payload is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true, "hasMatch": true, "intentType": "navigation",
				"matchedDestination": null, "listMutation": null, "formMutation": null}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second).AnalyzeIntent(context.Background(), "go home", dests, "")
		assert.Error(t, err)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "text is required"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second).AnalyzeIntent(context.Background(), "go home", dests, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})
}

func TestTranscribe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/speech/transcribe", r.URL.Path)
			assert.Equal(t, "audio/webm", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"success": true, "transcript": "clear all filters"}`))
		}))
		defer srv.Close()

		out, err := New(srv.URL, time.Second).Transcribe(context.Background(), []byte{1, 2}, "audio/webm")
		require.NoError(t, err)
		assert.Equal(t, "clear all filters", out)
	})

	t.Run("failure passes through service error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success": false, "error": "failed to transcribe audio"}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second).Transcribe(context.Background(), []byte{1, 2}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to transcribe audio")
	})
}
