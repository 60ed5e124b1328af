package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	var got synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tts", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFFdata"))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "mika")

	wav, err := c.Synthesize(context.Background(), "你好", "")
	require.NoError(t, err)
	require.Equal(t, []byte("RIFFdata"), wav)
	require.Equal(t, synthesizeRequest{Text: "你好", Character: "mika"}, got)

	_, err = c.Synthesize(context.Background(), "hi", "feibi")
	require.NoError(t, err)
	require.Equal(t, "feibi", got.Character)
}

func TestSynthesize_EmptyText(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "mika")
	_, err := c.Synthesize(context.Background(), "  ", "")
	require.ErrorIs(t, err, ErrTextRequired)
}

func TestSynthesize_ServiceError(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json error", http.StatusInternalServerError, `{"error":"character not loaded"}`, "tts error 500: character not loaded"},
		{"plain error", http.StatusBadGateway, `upstream down`, "tts error 502: upstream down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "mika").Synthesize(context.Background(), "hi", "")
			require.EqualError(t, err, tc.want)
		})
	}
}
