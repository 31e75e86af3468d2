package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepgramClient_Transcribe(t *testing.T) {
	audio := []byte{0x1a, 0x45, 0xdf, 0xa3}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/listen", r.URL.Path)
		assert.Equal(t, "nova-2", r.URL.Query().Get("model"))
		assert.Equal(t, "true", r.URL.Query().Get("smart_format"))
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "audio/webm", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, audio, body)

		_, _ = w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"  go to products  ","confidence":0.98}]}]}}`))
	}))
	defer srv.Close()

	c := NewDeepgramClientWithConfig(DeepgramConfig{APIKey: "test-key", BaseURL: srv.URL})
	out, err := c.Transcribe(context.Background(), audio, "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "go to products", out)
}

func TestDeepgramClient_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		c := NewDeepgramClient("")
		_, err := c.Transcribe(context.Background(), []byte{1}, "")
		assert.Error(t, err)
	})

	t.Run("empty audio", func(t *testing.T) {
		c := NewDeepgramClient("k")
		_, err := c.Transcribe(context.Background(), nil, "")
		assert.Error(t, err)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewDeepgramClientWithConfig(DeepgramConfig{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Transcribe(context.Background(), []byte{1}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("empty transcript", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"   "}]}]}}`))
		}))
		defer srv.Close()

		c := NewDeepgramClientWithConfig(DeepgramConfig{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Transcribe(context.Background(), []byte{1}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty transcript")
	})

	t.Run("no alternatives", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":{"channels":[]}}`))
		}))
		defer srv.Close()

		c := NewDeepgramClientWithConfig(DeepgramConfig{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Transcribe(context.Background(), []byte{1}, "")
		assert.Error(t, err)
	})
}
