package controlhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/fileaccess/internal/models"
	"github.com/yourname/fileaccess/internal/quota"
	"github.com/yourname/fileaccess/internal/usecase/fileaccess"
	"github.com/yourname/fileaccess/pkg/accessproto"
)

// fakeService запоминает аргументы и возвращает заранее заданные ответы.
type fakeService struct {
	err error

	gotPath   string
	gotOffset int64
	gotSize   *int64
	gotChunk  *int64
	base64    bool
}

func (f *fakeService) GetURL(_ context.Context, path string) (string, error) {
	f.gotPath = path
	return "http://127.0.0.1:1234/tok", f.err
}

func (f *fakeService) Chunk(_ context.Context, path string, chunkSize *int64) ([]models.ChunkInfo, error) {
	f.gotPath, f.gotChunk = path, chunkSize
	if f.err != nil {
		return nil, f.err
	}
	return []models.ChunkInfo{{Path: "/t/a", ChunkNumber: 0, TotalChunks: 2}, {Path: "/t/b", ChunkNumber: 1, TotalChunks: 2}}, nil
}

func (f *fakeService) Slice(_ context.Context, path string, offset int64, size *int64) (string, error) {
	f.gotPath, f.gotOffset, f.gotSize = path, offset, size
	return "/t/slice", f.err
}

func (f *fakeService) Read(_ context.Context, path string, offset int64, size *int64) (models.ReadResult, error) {
	f.gotPath, f.gotOffset, f.gotSize = path, offset, size
	return models.ReadResult{Data: "text"}, f.err
}

func (f *fakeService) ReadBase64(_ context.Context, path string, offset int64, size *int64) (models.ReadResult, error) {
	f.base64 = true
	f.gotPath, f.gotOffset, f.gotSize = path, offset, size
	return models.ReadResult{Data: "dGV4dA==", Base64: true, Size: 4}, f.err
}

func (f *fakeService) Status(context.Context) (fileaccess.Status, error) {
	return fileaccess.Status{
		Addr:       "127.0.0.1:1234",
		Registered: 3,
		Usage:      quota.Usage{FilesUsed: 1, BytesUsed: 2, FileLimit: 10, ByteLimit: 20},
		TempBytes:  2,
	}, f.err
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostURLs(t *testing.T) {
	svc := &fakeService{}
	h, _ := NewServer(svc, nil)

	rec := do(t, h, http.MethodPost, accessproto.PathURLs, `{"file":"/a.txt"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp accessproto.URLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "http://127.0.0.1:1234/tok", resp.URL)
	assert.Equal(t, "/a.txt", svc.gotPath)
}

func TestPostChunks(t *testing.T) {
	svc := &fakeService{}
	h, _ := NewServer(svc, nil)

	rec := do(t, h, http.MethodPost, accessproto.PathChunks, `{"file":"/big","chunk_size":4096}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp accessproto.ChunkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Chunks, 2)
	assert.Equal(t, accessproto.Chunk{Path: "/t/b", ChunkNumber: 1, TotalChunks: 2}, resp.Chunks[1])
	require.NotNil(t, svc.gotChunk)
	assert.Equal(t, int64(4096), *svc.gotChunk)

	rec = do(t, h, http.MethodPost, accessproto.PathChunks, `{"file":"/big"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotChunk, "missing chunk_size means default")

	rec = do(t, h, http.MethodPost, accessproto.PathChunks, `{"file":"/big","chunk_size":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotChunk, "explicit zero is passed through")
	assert.Zero(t, *svc.gotChunk)
}

func TestPostSlices(t *testing.T) {
	svc := &fakeService{}
	h, _ := NewServer(svc, nil)

	rec := do(t, h, http.MethodPost, accessproto.PathSlices, `{"file":"/f","offset":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotSize, "missing size means rest of file")
	assert.Equal(t, int64(10), svc.gotOffset)

	rec = do(t, h, http.MethodPost, accessproto.PathSlices, `{"file":"/f","offset":10,"size":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotSize)
	assert.Equal(t, int64(5), *svc.gotSize)

	var resp accessproto.SliceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/t/slice", resp.Path)
}

func TestPostReads(t *testing.T) {
	svc := &fakeService{}
	h, _ := NewServer(svc, nil)

	rec := do(t, h, http.MethodPost, accessproto.PathReads, `{"file":"/f"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.base64)

	rec = do(t, h, http.MethodPost, accessproto.PathReads, `{"file":"/f","base64":true,"size":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.base64)

	var resp accessproto.ReadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, accessproto.ReadResponse{Data: "dGV4dA==", Base64: true, Size: 4}, resp)
}

func TestHealth(t *testing.T) {
	h, _ := NewServer(&fakeService{}, nil)

	rec := do(t, h, http.MethodGet, accessproto.PathHealth, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp accessproto.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, accessproto.Health{
		OK: true, Addr: "127.0.0.1:1234", Files: 3,
		FilesUsed: 1, BytesUsed: 2, FileLimit: 10, ByteLimit: 20, TempBytes: 2,
	}, resp)
}

func TestErrorsMapped(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: offset is beyond end of file", models.ErrInvalidArgument), http.StatusBadRequest},
		{models.ErrResourceExceeded, http.StatusTooManyRequests},
		{fmt.Errorf("%w: cannot open file for reading", models.ErrIO), http.StatusInternalServerError},
		{models.ErrNotStarted, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		h, _ := NewServer(&fakeService{err: tc.err}, nil)
		for _, path := range []string{accessproto.PathURLs, accessproto.PathChunks, accessproto.PathSlices, accessproto.PathReads} {
			rec := do(t, h, http.MethodPost, path, `{"file":"/f"}`)
			assert.Equal(t, tc.code, rec.Code, "%s: %v", path, tc.err)
			assert.Contains(t, rec.Body.String(), tc.err.Error())
		}
	}
}

func TestMalformedRequest(t *testing.T) {
	h, _ := NewServer(&fakeService{}, nil)

	for _, body := range []string{`not json`, `{"file":"/f","unknown":1}`, `{"file":1}`} {
		rec := do(t, h, http.MethodPost, accessproto.PathURLs, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
