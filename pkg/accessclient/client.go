package accessclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yourname/fileaccess/pkg/accessproto"
)

type Client interface {
	// GetURL Получить loopback URL для файла
	GetURL(ctx context.Context, file string) (string, error)
	// Chunk Разрезать файл на куски; chunkSize == nil — размер по умолчанию
	Chunk(ctx context.Context, file string, chunkSize *int64) ([]accessproto.Chunk, error)
	// Slice Извлечь диапазон файла; size == nil — до конца файла
	Slice(ctx context.Context, file string, offset int64, size *int64) (string, error)
	// Read Прочитать содержимое файла
	Read(ctx context.Context, req accessproto.ReadRequest) (accessproto.ReadResponse, error)
	// Health Состояние сервера
	Health(ctx context.Context) (accessproto.Health, error)
	// Download Скачать файл по loopback URL
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

type httpClient struct {
	base     string
	c        *http.Client
	progress *progress
}

// Option настраивает клиента.
type Option func(*httpClient)

// WithProgress включает индикатор скачивания в w. Все скачивания клиента,
// включая параллельные, делят одну строку.
func WithProgress(w io.Writer) Option {
	return func(h *httpClient) { h.progress = newProgress(w) }
}

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

// New создаёт клиента управляющего API по базовому адресу вида http://127.0.0.1:8090.
func New(baseURL string, opts ...Option) Client {
	h := &httpClient{
		base: strings.TrimRight(baseURL, "/"),
		c:    &http.Client{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *httpClient) GetURL(ctx context.Context, file string) (string, error) {
	var resp accessproto.URLResponse
	if err := h.post(ctx, accessproto.PathURLs, accessproto.URLRequest{File: file}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (h *httpClient) Chunk(ctx context.Context, file string, chunkSize *int64) ([]accessproto.Chunk, error) {
	var resp accessproto.ChunkResponse
	req := accessproto.ChunkRequest{File: file, ChunkSize: chunkSize}
	if err := h.post(ctx, accessproto.PathChunks, req, &resp); err != nil {
		return nil, err
	}
	return resp.Chunks, nil
}

func (h *httpClient) Slice(ctx context.Context, file string, offset int64, size *int64) (string, error) {
	var resp accessproto.SliceResponse
	req := accessproto.SliceRequest{File: file, Offset: offset, Size: size}
	if err := h.post(ctx, accessproto.PathSlices, req, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

func (h *httpClient) Read(ctx context.Context, req accessproto.ReadRequest) (accessproto.ReadResponse, error) {
	var resp accessproto.ReadResponse
	if err := h.post(ctx, accessproto.PathReads, req, &resp); err != nil {
		return accessproto.ReadResponse{}, err
	}
	return resp, nil
}

func (h *httpClient) Health(ctx context.Context) (accessproto.Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+accessproto.PathHealth, nil)
	if err != nil {
		return accessproto.Health{}, err
	}

	var out accessproto.Health
	if err = h.do(req, &out); err != nil {
		return accessproto.Health{}, err
	}
	return out, nil
}

// Download скачивает файл по loopback URL и пишет тело в w.
func (h *httpClient) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	rc, err := h.open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	return io.Copy(w, rc)
}

// open выполняет GET и возвращает тело ответа, при необходимости с индикатором.
func (h *httpClient) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file GET failed: %s", resp.Status)
	}

	if h.progress == nil {
		return resp.Body, nil
	}

	return h.progress.track(resp.Body, resp.ContentLength), nil
}

func (h *httpClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return h.do(req, out)
}

func (h *httpClient) do(req *http.Request, out any) error {
	resp, err := h.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// StatusError — ответ управляющего API с кодом, отличным от 200.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fileaccess %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}
