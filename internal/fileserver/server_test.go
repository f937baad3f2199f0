package fileserver

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/fileaccess/internal/models"
)

func newServer(t *testing.T, maxFiles, maxBytes int64) *Server {
	t.Helper()
	s := New(Options{
		TempDir:  filepath.Join(t.TempDir(), "fileaccess"),
		MaxFiles: maxFiles,
		MaxBytes: maxBytes,
	})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func randomFile(t *testing.T, name string, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p, data
}

func tempEntries(t *testing.T, s *Server) int {
	t.Helper()
	entries, err := os.ReadDir(s.TempDir())
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestServer_StartAddFileServe(t *testing.T) {
	s := newServer(t, 0, 0)

	addr, err := s.Start()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(addr, "127.0.0.1:"))
	assert.Equal(t, addr, s.Addr())

	path, want := randomFile(t, "photo.jpg", 100<<10)
	u, err := s.AddFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u, "http://"+addr+"/"))

	resp, err := http.Get(u + "/holiday.jpg")
	require.NoError(t, err)
	got, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, want, got)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	resp, err = http.Get("http://" + addr + "/00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, body)
}

func TestServer_Lifecycle(t *testing.T) {
	s := newServer(t, 0, 0)

	_, err := s.AddFile("/x")
	require.ErrorIs(t, err, models.ErrNotStarted)
	assert.Empty(t, s.Addr())

	addr, err := s.Start()
	require.NoError(t, err)

	_, err = s.Start()
	require.Error(t, err, "second start must fail")

	path, _ := randomFile(t, "a.bin", 64)
	_, err = s.GetSlice(path, 1, 10)
	require.NoError(t, err)
	require.DirExists(t, s.TempDir())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")
	assert.NoDirExists(t, s.TempDir())

	_, err = s.Start()
	require.ErrorIs(t, err, models.ErrStopped)
	_, err = s.AddFile(path)
	require.ErrorIs(t, err, models.ErrStopped)

	_, err = http.Get("http://" + addr + "/anything")
	require.Error(t, err, "listener must be closed")
}

func TestServer_ConcurrentAddFile(t *testing.T) {
	s := newServer(t, 0, 0)
	_, err := s.Start()
	require.NoError(t, err)

	const n = 32
	urls := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := s.AddFile(fmt.Sprintf("/file-%d", i))
			assert.NoError(t, err)
			urls[i] = u
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, u := range urls {
		parsed, err := url.Parse(u)
		require.NoError(t, err)
		token := strings.TrimPrefix(parsed.Path, "/")
		require.False(t, seen[token])
		seen[token] = true

		p, err := s.files.Resolve(token)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("/file-%d", i), p)
	}
	assert.Equal(t, n, s.Registered())
}

func TestServer_TempDirErrors(t *testing.T) {
	noRoot := New(Options{})
	t.Cleanup(func() { _ = noRoot.Close() })

	_, err := noRoot.GetFileChunks("/x", 10)
	require.ErrorIs(t, err, models.ErrConfig)
	_, err = noRoot.GetSlice("/x", 0, 10)
	require.ErrorIs(t, err, models.ErrConfig)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	bad := New(Options{TempDir: filepath.Join(blocker, "tmp")})

	_, err = bad.GetFileChunks("/x", 10)
	require.ErrorIs(t, err, models.ErrFilesystem)
	_, err = bad.GetSlice("/x", 0, 10)
	require.ErrorIs(t, err, models.ErrFilesystem)
}

func TestServer_CloseRemovesChunkFiles(t *testing.T) {
	s := newServer(t, 0, 0)
	path, _ := randomFile(t, "big.bin", 10<<10)

	chunks, err := s.GetFileChunks(path, 1<<10)
	require.NoError(t, err)
	require.Len(t, chunks, 10)
	assert.Equal(t, 10, tempEntries(t, s))

	require.NoError(t, s.Close())
	for _, c := range chunks {
		assert.NoFileExists(t, c.Path)
	}
	assert.FileExists(t, path, "source file must survive shutdown")
}

func TestServer_UsageVisible(t *testing.T) {
	s := newServer(t, 7, 1000)
	u := s.Usage()
	assert.Equal(t, int64(7), u.FileLimit)
	assert.Equal(t, int64(1000), u.ByteLimit)

	def := newServer(t, 0, 0).Usage()
	assert.Equal(t, int64(1024), def.FileLimit)
	assert.Equal(t, int64(512<<20), def.ByteLimit)
	assert.True(t, bytes.Contains([]byte(def.String()), []byte("512 MiB")))
}
