// Package accessproto описывает протокол HTTP-взаимодействия с файловым сервером:
// loopback-выдачу файлов и управляющий JSON API.
package accessproto

// Параметры loopback-выдачи файлов.
const (
	LoopbackHost = "127.0.0.1"
	URLFormat    = "http://%s/%s"
	ServerHeader = "FileAccess fileaccess service"
	DefaultChunk = 2 << 20
	MaxReadSize  = 2 << 20
)

// Пути управляющего API.
const (
	PathURLs   = "/urls"
	PathChunks = "/chunks"
	PathSlices = "/slices"
	PathReads  = "/reads"
	PathHealth = "/health"
)

// URLRequest — тело POST /urls.
type URLRequest struct {
	File string `json:"file"`
}

// URLResponse — ответ POST /urls.
type URLResponse struct {
	URL string `json:"url"`
}

// ChunkRequest — тело POST /chunks. Нулевой ChunkSize означает размер по умолчанию.
type ChunkRequest struct {
	File      string `json:"file"`
	ChunkSize *int64 `json:"chunk_size,omitempty"`
}

// Chunk — один кусок в ответе POST /chunks.
type Chunk struct {
	Path        string `json:"path"`
	ChunkNumber int    `json:"chunk_number"`
	TotalChunks int    `json:"total_chunks"`
}

// ChunkResponse — ответ POST /chunks.
type ChunkResponse struct {
	Chunks []Chunk `json:"chunks"`
}

// SliceRequest — тело POST /slices. Size == nil означает «до конца файла».
type SliceRequest struct {
	File   string `json:"file"`
	Offset int64  `json:"offset,omitempty"`
	Size   *int64 `json:"size,omitempty"`
}

// SliceResponse — ответ POST /slices.
type SliceResponse struct {
	Path string `json:"path"`
}

// ReadRequest — тело POST /reads. Size == nil означает максимальный объём чтения.
type ReadRequest struct {
	File   string `json:"file"`
	Offset int64  `json:"offset,omitempty"`
	Size   *int64 `json:"size,omitempty"`
	Base64 bool   `json:"base64,omitempty"`
}

// ReadResponse — ответ POST /reads.
type ReadResponse struct {
	Data   string `json:"data"`
	Base64 bool   `json:"base64"`
	Size   int    `json:"size"`
}

// Health — ответ GET /health.
type Health struct {
	OK        bool   `json:"ok"`
	Addr      string `json:"addr"`
	Files     int    `json:"registered_files"`
	FilesUsed int64  `json:"files_used"`
	BytesUsed int64  `json:"bytes_used"`
	FileLimit int64  `json:"file_limit"`
	ByteLimit int64  `json:"byte_limit"`
	TempBytes int64  `json:"temp_bytes"`
}
