package accessclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/fileaccess/pkg/accessproto"
)

func TestClient_ControlCalls(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	capture := func(resp any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got = map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&got)
			_ = json.NewEncoder(w).Encode(resp)
		}
	}
	mux.HandleFunc("POST "+accessproto.PathURLs, capture(accessproto.URLResponse{URL: "http://127.0.0.1:1/tok"}))
	mux.HandleFunc("POST "+accessproto.PathChunks, capture(accessproto.ChunkResponse{Chunks: []accessproto.Chunk{{Path: "/a", TotalChunks: 1, ChunkNumber: 1}}}))
	mux.HandleFunc("POST "+accessproto.PathSlices, capture(accessproto.SliceResponse{Path: "/s"}))
	mux.HandleFunc("POST "+accessproto.PathReads, capture(accessproto.ReadResponse{Data: "hi"}))
	mux.HandleFunc("GET "+accessproto.PathHealth, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(accessproto.Health{OK: true, Addr: "127.0.0.1:1"})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	c := New(ts.URL + "/")
	ctx := context.Background()

	u, err := c.GetURL(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1/tok", u)
	assert.Equal(t, "/f", got["file"])

	ten := int64(10)
	chunks, err := c.Chunk(ctx, "/f", &ten)
	require.NoError(t, err)
	assert.Equal(t, []accessproto.Chunk{{Path: "/a", ChunkNumber: 1, TotalChunks: 1}}, chunks)
	assert.Equal(t, float64(10), got["chunk_size"])

	size := int64(7)
	p, err := c.Slice(ctx, "/f", 3, &size)
	require.NoError(t, err)
	assert.Equal(t, "/s", p)
	assert.Equal(t, float64(3), got["offset"])
	assert.Equal(t, float64(7), got["size"])

	_, err = c.Slice(ctx, "/f", 3, nil)
	require.NoError(t, err)
	_, hasSize := got["size"]
	assert.False(t, hasSize, "nil size must be omitted")

	rd, err := c.Read(ctx, accessproto.ReadRequest{File: "/f", Base64: true})
	require.NoError(t, err)
	assert.Equal(t, "hi", rd.Data)
	assert.Equal(t, true, got["base64"])

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.True(t, h.OK)
}

func TestClient_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "allowed resources exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(ts.Close)

	_, err := New(ts.URL).GetURL(context.Background(), "/f")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, "allowed resources exceeded", se.Message)
	assert.Contains(t, err.Error(), "429 Too Many Requests")
}

func TestClient_Download(t *testing.T) {
	payload := bytes.Repeat([]byte("xyz"), 10000)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tok" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(ts.Close)

	var out bytes.Buffer
	n, err := New("").Download(context.Background(), ts.URL+"/tok", &out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, payload, out.Bytes())

	var bar bytes.Buffer
	out.Reset()
	_, err = New("", WithProgress(&bar)).Download(context.Background(), ts.URL+"/tok", &out)
	require.NoError(t, err)
	assert.Equal(t, payload, out.Bytes(), "progress must not leak into the data")
	assert.Contains(t, bar.String(), "✓")

	_, err = New("").Download(context.Background(), ts.URL+"/missing", io.Discard)
	require.ErrorContains(t, err, "404")
}
